// Package config provides configuration for the puzzle server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string
	// LogLevel is a zerolog level name.
	LogLevel string
	// ClientOrigin is the single origin allowed by CORS.
	ClientOrigin string
	// Production enables secure cookies.
	Production bool

	// DatabasePath is the SQLite file for local rankings and best times.
	DatabasePath string
	// RemoteRankingURL selects the shared leaderboard (postgres:// or redis://).
	// Empty keeps rankings local only.
	RemoteRankingURL string
	// RankingMaxDisplay is how many local entries are kept per stage.
	RankingMaxDisplay int
	// RankingRemoteLimit is the window used to compute remote ranks.
	RankingRemoteLimit int

	// StagesFile overrides the embedded stage catalogue.
	StagesFile string
	// StrictStages refuses to start when a stage has build defects.
	StrictStages bool

	// FeedbackWindow delays the commit of a decided syllable.
	FeedbackWindow time.Duration
	// AdvanceDelay delays the cursor move after a correct entry.
	AdvanceDelay time.Duration

	// JWTSecret signs play tokens.
	JWTSecret string
	// PlayTokenTTL is the lifetime of a play token.
	PlayTokenTTL time.Duration
	// SessionIdleTTL is how long an untouched session is kept in memory.
	SessionIdleTTL time.Duration
	// DailySalt keys the stage-of-the-day pick.
	DailySalt string
}

// FromEnv creates a Config from environment variables.
func FromEnv() *Config {
	return &Config{
		Port:               getEnv("PORT", "5175"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ClientOrigin:       getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:         os.Getenv("NODE_ENV") == "production",
		DatabasePath:       getEnv("DATABASE_PATH", "./data/puzzle.db"),
		RemoteRankingURL:   os.Getenv("REMOTE_RANKING_URL"),
		RankingMaxDisplay:  getEnvInt("RANKING_MAX_DISPLAY", 5),
		RankingRemoteLimit: getEnvInt("RANKING_REMOTE_LIMIT", 10),
		StagesFile:         os.Getenv("STAGES_FILE"),
		StrictStages:       getEnvBool("STRICT_STAGES", false),
		FeedbackWindow:     getEnvDuration("FEEDBACK_WINDOW", 200*time.Millisecond),
		AdvanceDelay:       getEnvDuration("ADVANCE_DELAY", 50*time.Millisecond),
		JWTSecret:          getEnv("JWT_SECRET", "dev_secret_change_me"),
		PlayTokenTTL:       getEnvDuration("PLAY_TOKEN_TTL", 24*time.Hour),
		SessionIdleTTL:     getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour),
		DailySalt:          getEnv("DAILY_SALT", "local_dev_salt"),
	}
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string { return ":" + c.Port }

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
