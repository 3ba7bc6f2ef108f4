package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/search"
	"github.com/neilberkman/runclub/internal/core/share"
)

var (
	listLimit   int
	listQuery   string
	listWhen    string
	listFrom    string
	listTo      string
	listType    string
	listSpot    string
	listPace    string
	listWomen   bool
	listWalking bool
	listJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming sessions",
	Long: `List upcoming sessions, best match for your reference paces first.

Filters can be given as flags or as a query using the same tokens as search.

Examples:
  runclub list
  runclub list --when week --type fartlek
  runclub list --spot "Parc" --pace 4:30-5:15
  runclub list --from tomorrow --to "next sunday"
  runclub list --query "type:threshold women"`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter query (spot:, type:, when:, after:, before:, pace:, women, walking)")
	listCmd.Flags().StringVar(&listWhen, "when", "", "Date window: today, week or month")
	listCmd.Flags().StringVar(&listFrom, "from", "", "First date (YYYY-MM-DD or natural language)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last date (YYYY-MM-DD or natural language)")
	listCmd.Flags().StringVar(&listType, "type", "", "Run type ("+runTypeNames()+")")
	listCmd.Flags().StringVar(&listSpot, "spot", "", "Meeting spot (substring)")
	listCmd.Flags().StringVar(&listPace, "pace", "", "Pace window such as 4:30-5:15")
	listCmd.Flags().BoolVar(&listWomen, "women", false, "Women-only sessions")
	listCmd.Flags().BoolVar(&listWalking, "walking", false, "Walking sessions only")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print sessions as JSON")
}

func runTypeNames() string {
	var names []string
	for _, t := range models.AllRunTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// filtersFromFlags starts from --query and lets explicit flags win
func filtersFromFlags(now time.Time) (models.FilterState, string, error) {
	f, text := search.ParseQuery(listQuery, now)

	if listWhen != "" {
		b, ok := search.ParseBucket(listWhen)
		if !ok {
			return f, "", fmt.Errorf("unknown --when %q (today, week, month)", listWhen)
		}
		f.DateBucket = b
	}
	if listFrom != "" || listTo != "" {
		r := models.DateRange{}
		if f.CustomRange != nil {
			r = *f.CustomRange
		}
		if listFrom != "" {
			d, ok := datetime.ParseHumanDate(listFrom, now)
			if !ok {
				return f, "", fmt.Errorf("unrecognized --from date %q", listFrom)
			}
			r.Start = datetime.FormatDateISO(d)
		}
		if listTo != "" {
			d, ok := datetime.ParseHumanDate(listTo, now)
			if !ok {
				return f, "", fmt.Errorf("unrecognized --to date %q", listTo)
			}
			r.End = datetime.FormatDateISO(d)
		}
		f.CustomRange = &r
	}
	if listType != "" {
		t, ok := models.ParseRunType(strings.ToLower(listType))
		if !ok {
			return f, "", fmt.Errorf("unknown --type %q (%s)", listType, runTypeNames())
		}
		f.RunType = t
	}
	if listSpot != "" {
		f.Spot = listSpot
	}
	if listPace != "" {
		w, ok := search.ParsePaceWindow(listPace)
		if !ok {
			return f, "", fmt.Errorf("invalid --pace %q, expected m:ss-m:ss", listPace)
		}
		f.PaceRange = &w
	}
	if listWomen {
		f.GenderRestriction = models.GenderWomenOnly
	}
	if listWalking {
		f.WalkingOnly = true
	}
	return f, text, nil
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	filters, text, err := filtersFromFlags(now)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	paces := referencePaces(a.Config.Paces)
	sessions, err := a.Catalog.Find(cmd.Context(), filters, paces, now)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions = matchText(sessions, text)

	// Apply limit (interface concern - pagination)
	if listLimit > 0 && len(sessions) > listLimit {
		sessions = sessions[:listLimit]
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if sessions == nil {
			sessions = []models.Session{}
		}
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		if !filters.IsEmpty() || text != "" {
			fmt.Println("No sessions match these filters.")
		} else {
			fmt.Println("No upcoming sessions. Create one with 'runclub create'.")
		}
		return nil
	}

	fmt.Printf("Showing %d session(s)\n\n", len(sessions))
	for i, s := range sessions {
		printSessionSummary(i+1, s, paces, now)
	}
	return nil
}

func matchText(sessions []models.Session, text string) []models.Session {
	if text == "" {
		return sessions
	}
	var out []models.Session
	for _, s := range sessions {
		if search.MatchesText(s, text) {
			out = append(out, s)
		}
	}
	return out
}

// referencePaces returns nil when no zone is configured, so sessions stay
// in chronological order
func referencePaces(p models.ReferencePaces) *models.ReferencePaces {
	if len(p.Points()) == 0 {
		return nil
	}
	return &p
}

func printSessionSummary(n int, s models.Session, paces *models.ReferencePaces, now time.Time) {
	header := fmt.Sprintf("[%d] %s", n, s.ID)
	if gap, ok := search.ComputeMatchScore(s, paces); ok {
		header += fmt.Sprintf("  (±%.0f s/km from your paces)", gap)
	}
	fmt.Println(header)
	fmt.Printf("    %s · %s\n", s.Title, s.Spot)

	when := s.DateLabel
	if rel := share.Relative(s, now); rel != "" {
		when += " (" + rel + ")"
	}
	fmt.Printf("    %s\n", when)

	details := []string{s.TypeLabel}
	if s.EstimatedDistanceKm > 0 {
		details = append(details, fmt.Sprintf("~%g km", s.EstimatedDistanceKm))
	}
	if groups := groupIDs(s); groups != "" {
		details = append(details, "groupes "+groups)
	}
	fmt.Printf("    %s\n", strings.Join(details, " · "))

	var tags []string
	if s.GenderRestriction == models.GenderWomenOnly {
		tags = append(tags, "women only")
	}
	if s.Visibility == models.VisibilityMembers {
		tags = append(tags, "members of "+s.HostGroupName)
	}
	if s.IsCustom {
		tags = append(tags, "custom")
	}
	if len(tags) > 0 {
		fmt.Printf("    [%s]\n", strings.Join(tags, ", "))
	}
	fmt.Println()
}

func groupIDs(s models.Session) string {
	var ids []string
	for _, g := range s.OfferedGroups() {
		id := g.ID
		if id == s.RecommendedGroupID {
			id += "*"
		}
		ids = append(ids, id)
	}
	return strings.Join(ids, " ")
}
