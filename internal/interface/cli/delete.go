package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session you created",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.Catalog.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if !removed {
		fmt.Printf("No session %s, nothing deleted\n", args[0])
		return nil
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}
