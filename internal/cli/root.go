// apps/go-server/internal/cli/root.go
//
// Command-line entry point.
//   puzzle serve              run the HTTP server
//   puzzle stages list        list the stage catalogue
//   puzzle stages validate    strict-build every stage, fail on defects
//   puzzle stages show <n>    print the grid and hints of a stage
//   puzzle ranking top <n>    print the leaderboard of a stage
//
// Configuration comes from the environment (optionally a .env file), see config.FromEnv.

package cli

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hknu/puzzle/apps/go-server/internal/config"
)

var (
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "puzzle",
		Short: "Hangul crossword puzzle server",
		Long: `Serves the Hangul crossword: stage boards, interactive play sessions,
personal best times and leaderboards.

Run the server:
  puzzle serve

Check a stage file before deploying it:
  STAGES_FILE=./stages.yaml puzzle stages validate`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(rankingCmd)
}

func initConfig() {
	_ = godotenv.Load()
	cfg = config.FromEnv()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}
