package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/share"
)

var (
	shareDebug bool
	shareCopy  bool
)

var shareCmd = &cobra.Command{
	Use:   "share <session-id>",
	Short: "Print the share card for a session",
	Long: `Render the text card used to invite other runners to a session.

The card comes from share_card.mustache in the config directory when it
exists, else from the built-in template. Use --debug to see the values the
template receives.`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.Flags().BoolVar(&shareDebug, "debug", false, "Show template data before the card")
	shareCmd.Flags().BoolVarP(&shareCopy, "copy", "c", false, "Copy the card to the clipboard")
}

func runShare(cmd *cobra.Command, args []string) error {
	sessionID := args[0]
	now := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.Catalog.Get(cmd.Context(), sessionID, now)
	if err != nil {
		return err
	}

	card, err := share.Render(a.Config.ShareTemplate, s, now)
	if err != nil {
		return err
	}

	if shareDebug {
		data := share.Data(s, now)
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Println("=== TEMPLATE DATA ===")
		for _, k := range keys {
			fmt.Printf("%s: %v\n", k, data[k])
		}
		fmt.Println()
		fmt.Println("=== SHARE CARD ===")
	}
	fmt.Println(card)

	if shareCopy {
		if err := clipboard.WriteAll(card); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println("(copied to clipboard)")
	}
	return nil
}
