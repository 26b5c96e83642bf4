package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hknu/puzzle/apps/go-server/internal/db"
	"github.com/hknu/puzzle/apps/go-server/internal/httpserver"
	"github.com/hknu/puzzle/apps/go-server/internal/ranking"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
	"github.com/hknu/puzzle/apps/go-server/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cat, err := loadStages()
		if err != nil {
			return err
		}
		for _, st := range cat.All() {
			if err := st.Validate(); err != nil {
				if cfg.StrictStages {
					return err
				}
				log.Warn().Err(err).Msg("stage has build defects; serving leniently")
			}
		}

		sqlDB, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer sqlDB.Close()

		rk := openRankings(ctx, sqlDB)
		defer rk.Close()

		mem := store.NewMemoryStore()
		go reapSessions(ctx, mem, cfg.SessionIdleTTL)

		srv := httpserver.New(cfg, mem, cat, rk)
		httpSrv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		log.Info().
			Str("port", cfg.Port).
			Int("stages", cat.Count()).
			Bool("remoteRanking", rk.HasRemote()).
			Msg("starting go-server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited: %w", err)
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

// reapSessions drops idle sessions until ctx is done.
func reapSessions(ctx context.Context, st store.Store, idle time.Duration) {
	every := idle / 4
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Reap(ctx, now, idle); n > 0 {
				log.Info().Int("reaped", n).Int("live", st.Len()).Msg("idle sessions closed")
			}
		}
	}
}

// loadStages initialises and returns the default catalogue.
func loadStages() (*stage.Catalogue, error) {
	if err := stage.Init(); err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	return stage.Default(), nil
}

// openRankings wires the local store with the optional remote backend.
// An unreachable remote degrades to local-only rankings.
func openRankings(ctx context.Context, sqlDB *sql.DB) *ranking.Service {
	remote, err := ranking.OpenRemote(ctx, cfg.RemoteRankingURL)
	if err != nil {
		log.Warn().Err(err).Msg("remote ranking unavailable; using local rankings only")
		remote = nil
	}
	local := ranking.NewLocal(sqlDB, cfg.RankingMaxDisplay)
	return ranking.NewService(local, remote, cfg.RankingRemoteLimit)
}
