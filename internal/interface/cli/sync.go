package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/remote"
)

var syncRemote string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import sessions published by the club",
	Long: `Fetch the club's sessions from its API and add the ones not seen yet.

The API base URL comes from --remote, else remote_url in config.toml or
RUNCLUB_REMOTE. Sessions already present are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncRemote, "remote", "", "Club API base URL")
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	baseURL := syncRemote
	if baseURL == "" {
		baseURL = a.Config.RemoteURL
	}
	if baseURL == "" {
		return fmt.Errorf("no remote configured, pass --remote or set remote_url in config.toml")
	}

	fmt.Printf("Syncing sessions from: %s\n", baseURL)
	fmt.Printf("Database: %s\n\n", a.DB.Path())

	fetched, err := remote.NewClient(baseURL).FetchSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if len(fetched) == 0 {
		fmt.Println("No sessions published")
		return nil
	}

	added, err := a.Catalog.Import(cmd.Context(), fetched, time.Now())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("Fetched %d session(s), %d new\n", len(fetched), added)
	return nil
}
