package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/share"
)

var joinCmd = &cobra.Command{
	Use:   "join <session-id> [group]",
	Short: "Join a session's pace group",
	Long: `Join a pace group of a session. Without a group you join the
recommended one. Joining again switches group.

Members-only sessions need runner_group in config.toml (or RUNCLUB_GROUP)
to match the host group.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runJoin,
}

var leaveCmd = &cobra.Command{
	Use:   "leave <session-id>",
	Short: "Leave a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeave,
}

var joinedCmd = &cobra.Command{
	Use:   "joined",
	Short: "List the sessions you joined",
	RunE:  runJoined,
}

func init() {
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(joinedCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	group := ""
	if len(args) == 2 {
		group = args[1]
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	j, err := a.Catalog.Join(cmd.Context(), args[0], group, a.Config.RunnerGroup, time.Now())
	if err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}
	fmt.Printf("Joined group %s of %s\n", j.GroupID, j.SessionID)
	return nil
}

func runLeave(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	left, err := a.Catalog.Leave(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to leave: %w", err)
	}
	if !left {
		fmt.Printf("You had not joined %s\n", args[0])
		return nil
	}
	fmt.Printf("Left %s\n", args[0])
	return nil
}

func runJoined(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.Catalog.Joined(cmd.Context(), now)
	if err != nil {
		return fmt.Errorf("failed to list joined sessions: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("You have not joined any session. Use 'runclub join <id>'.")
		return nil
	}

	for i, e := range entries {
		s := e.Session
		fmt.Printf("[%d] %s  group %s\n", i+1, s.ID, e.GroupID)
		fmt.Printf("    %s · %s\n", s.Title, s.Spot)
		when := s.DateLabel
		if rel := share.Relative(s, now); rel != "" {
			when += " (" + rel + ")"
		}
		fmt.Printf("    %s\n\n", when)
	}
	return nil
}
