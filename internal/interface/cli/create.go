package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/builder"
	"github.com/neilberkman/runclub/internal/core/models"
)

var (
	createSpot    string
	createDate    string
	createTime    string
	createType    string
	createTitle   string
	createGroups  []string
	createWorkout string
	createMembers string
	createWomen   bool
	createClub    string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session",
	Long: `Create a custom session. You are joined to its recommended group.

Groups are given as ID=PACE, one flag per group. The recommended group is
C, else B, else A, else D among the groups with a pace.

Examples:
  runclub create --spot "Stade de Gerland" --date "JEUDI 6 NOVEMBRE" --time 18:30 \
    --type Seuil --group A=4:20 --group C=5:20
  runclub create --spot Berges --date 2025-11-08 --time 09:00 --type Footing \
    --group B=5:45 --women`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createSpot, "spot", "", "Meeting spot (required)")
	createCmd.Flags().StringVar(&createDate, "date", "", `Date: "LUNDI 10 NOVEMBRE" or YYYY-MM-DD (required)`)
	createCmd.Flags().StringVar(&createTime, "time", "", "Start time HH:MM (required)")
	createCmd.Flags().StringVar(&createType, "type", "", "Session type label, e.g. Fartlek (required)")
	createCmd.Flags().StringVar(&createTitle, "title", "", "Title (defaults to the type)")
	createCmd.Flags().StringArrayVar(&createGroups, "group", nil, "Pace group as ID=m:ss, repeatable")
	createCmd.Flags().StringVar(&createWorkout, "workout", "", "Workout id")
	createCmd.Flags().StringVar(&createMembers, "members", "", "Restrict to members of this group")
	createCmd.Flags().BoolVar(&createWomen, "women", false, "Women-only session")
	createCmd.Flags().StringVar(&createClub, "club", "", "Club id")
	for _, name := range []string{"spot", "date", "time", "type"} {
		_ = createCmd.MarkFlagRequired(name)
	}
}

// parseGroupFlags reads ID=m:ss[/km] pairs
func parseGroupFlags(values []string) ([]models.PaceGroupOverride, error) {
	var groups []models.PaceGroupOverride
	seen := map[string]bool{}
	for _, v := range values {
		id, paceText, ok := strings.Cut(v, "=")
		id = strings.ToUpper(strings.TrimSpace(id))
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --group %q, expected ID=m:ss", v)
		}
		if seen[id] {
			return nil, fmt.Errorf("group %s given twice", id)
		}
		seen[id] = true

		pace, ok := models.ParsePace(paceText)
		if !ok {
			return nil, fmt.Errorf("invalid pace %q for group %s", paceText, id)
		}
		groups = append(groups, models.PaceGroupOverride{ID: id, IsActive: true, PaceSecondsPerKm: &pace})
	}
	return groups, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	groups, err := parseGroupFlags(createGroups)
	if err != nil {
		return err
	}

	form := builder.Form{
		Spot:      createSpot,
		DateLabel: createDate,
		TimeLabel: createTime,
		TypeLabel: createType,
		Groups:    groups,
		Title:     createTitle,
		WorkoutID: createWorkout,
		ClubID:    createClub,
	}
	if createMembers != "" {
		form.Visibility = models.VisibilityMembers
		form.HostGroupName = createMembers
	}
	if createWomen {
		form.GenderRestriction = models.GenderWomenOnly
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Catalog.Create(cmd.Context(), form, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	fmt.Printf("Created session %s\n", res.Session.ID)
	fmt.Printf("  %s · %s\n", res.Session.Title, res.Session.Spot)
	fmt.Printf("  %s\n", res.Session.DateLabel)
	if res.DefaultGroupID != "" {
		fmt.Printf("  Joined group %s (target %s)\n", res.DefaultGroupID, res.Session.TargetPace)
	}
	return nil
}
