package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/search"
	"github.com/neilberkman/runclub/internal/core/share"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the session record as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	s, err := a.Catalog.Get(ctx, args[0], now)
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Printf("%s\n", s.Title)
	fmt.Printf("ID:       %s\n", s.ID)
	fmt.Printf("Spot:     %s\n", s.Spot)
	when := s.DateLabel
	if rel := share.Relative(s, now); rel != "" {
		when += " (" + rel + ")"
	}
	fmt.Printf("When:     %s\n", when)
	fmt.Printf("Type:     %s", s.TypeLabel)
	if t, ok := search.SessionRunTypeID(s, a.Catalog.Workouts()); ok {
		fmt.Printf(" [%s]", t)
	}
	fmt.Println()
	if s.Volume != "" {
		fmt.Printf("Volume:   %s\n", s.Volume)
	}
	if s.EstimatedDistanceKm > 0 {
		fmt.Printf("Distance: ~%g km\n", s.EstimatedDistanceKm)
	}
	if s.TargetPace != "" {
		fmt.Printf("Target:   %s\n", s.TargetPace)
	}
	if w, ok := a.Catalog.Workouts()[s.WorkoutID]; ok {
		fmt.Printf("Workout:  %s\n", w.Name)
	}
	switch {
	case s.Visibility == models.VisibilityMembers:
		fmt.Printf("Access:   members of %s\n", s.HostGroupName)
	case s.GenderRestriction == models.GenderWomenOnly:
		fmt.Printf("Access:   women only\n")
	}

	joined, err := joinedGroup(cmd, a.Catalog, s.ID, now)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Pace groups:")
	for _, g := range s.OfferedGroups() {
		marker := " "
		if g.ID == s.RecommendedGroupID {
			marker = "*"
		}
		line := fmt.Sprintf("  %s %s  %s", marker, g.Label, g.PaceRange)
		if g.PaceRange == "" && g.AvgPaceSecondsPerKm > 0 {
			line += models.FormatPace(g.AvgPaceSecondsPerKm) + "/km"
		}
		if g.ID == joined {
			line += "  ← joined"
		}
		fmt.Println(line)
	}

	if !catalog.CanJoin(s, a.Config.RunnerGroup) {
		fmt.Println()
		fmt.Println("You cannot join this session: it is reserved to its host group.")
	}
	return nil
}

func joinedGroup(cmd *cobra.Command, cat *catalog.Catalog, id string, now time.Time) (string, error) {
	entries, err := cat.Joined(cmd.Context(), now)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Session.ID == id {
			return e.GroupID, nil
		}
	}
	return "", nil
}
