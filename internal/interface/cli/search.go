package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search sessions with a filter query",
	Long: `Search upcoming sessions. Filter tokens narrow the list, remaining words
must all appear in the title, spot, type or host group (accents ignored).

Tokens:
  spot:<text>        meeting spot contains text (quote values with spaces)
  type:<run type>    fartlek, threshold, long, intervals_400, walking, ...
  when:<window>      today, week, month
  after:<date>       on or after a date (YYYY-MM-DD or "tomorrow", "next monday")
  before:<date>      on or before a date
  pace:<lo-hi>       some group runs within the window, e.g. pace:4:30-5:15
  women              women-only sessions
  walking            walking sessions

Examples:
  runclub search fartlek parc
  runclub search 'spot:"Quais du Rhône" when:week'
  runclub search type:threshold pace:4:30-5:00`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of sessions to show")
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Join all args as query
	query := strings.Join(args, " ")
	now := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	// Same backend as the TUI, HTTP and MCP
	paces := referencePaces(a.Config.Paces)
	results, err := a.Catalog.Search(cmd.Context(), query, paces, now)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No sessions found for: %s\n", query)
		return nil
	}

	fmt.Printf("Found %d session(s) for: %s\n\n", len(results), query)
	for i, s := range results {
		if i >= searchLimit {
			fmt.Printf("... and %d more sessions (use --limit to see more)\n", len(results)-searchLimit)
			break
		}
		printSessionSummary(i+1, s, paces, now)
	}
	return nil
}
