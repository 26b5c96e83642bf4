package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_PATH", "FEEDBACK_WINDOW", "ADVANCE_DELAY", "RANKING_MAX_DISPLAY", "NODE_ENV", "REMOTE_RANKING_URL", "DAILY_SALT"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Addr() != ":5175" || c.DatabasePath != "./data/puzzle.db" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.FeedbackWindow != 200*time.Millisecond || c.AdvanceDelay != 50*time.Millisecond {
		t.Fatalf("unexpected delays: %v %v", c.FeedbackWindow, c.AdvanceDelay)
	}
	if c.RankingMaxDisplay != 5 || c.RankingRemoteLimit != 10 || c.Production || c.RemoteRankingURL != "" {
		t.Fatalf("unexpected ranking defaults: %+v", c)
	}
	if c.DailySalt != "local_dev_salt" {
		t.Fatalf("daily salt = %q", c.DailySalt)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FEEDBACK_WINDOW", "350ms")
	t.Setenv("STRICT_STAGES", "true")
	t.Setenv("RANKING_MAX_DISPLAY", "0") // ignored: must be positive
	t.Setenv("SESSION_IDLE_TTL", "soon") // ignored: not a duration
	t.Setenv("NODE_ENV", "production")

	c := FromEnv()
	if c.Port != "8080" || c.FeedbackWindow != 350*time.Millisecond || !c.StrictStages || !c.Production {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.RankingMaxDisplay != 5 || c.SessionIdleTTL != 2*time.Hour {
		t.Fatalf("invalid values should fall back: %+v", c)
	}
}
