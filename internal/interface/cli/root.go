package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/app"
	"github.com/neilberkman/runclub/internal/core/config"
)

var (
	dbPath      string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runclub",
	Short: "Group run finder",
	Long: `runclub - find, create, and join group running sessions

Browse the club's weekly sessions, filter them by date, workout type, spot
and pace, and join the pace group that fits you.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	// Empty means the path from config.toml, ~/.config/runclub/runclub.db by default
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path")
}

// openApp loads config and opens the catalog. Callers must Close the App.
func openApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.Open(cfg, dbPath, time.Now())
}
