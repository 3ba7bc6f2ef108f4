package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/store"
)

var (
	updateTitle    string
	updateSpot     string
	updateDate     string
	updateTime     string
	updateType     string
	updateVolume   string
	updateTarget   string
	updateDistance float64
	updateWomen    bool
)

var updateCmd = &cobra.Command{
	Use:   "update <session-id>",
	Short: "Edit a session you created",
	Long: `Change fields of a custom session. Only the flags you pass are changed.
Bundled sessions are read-only.

Examples:
  runclub update 3f1c... --title "Seuil du jeudi"
  runclub update 3f1c... --date "next thursday" --time 19:00`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "Title")
	updateCmd.Flags().StringVar(&updateSpot, "spot", "", "Meeting spot")
	updateCmd.Flags().StringVar(&updateDate, "date", "", "Date (YYYY-MM-DD or natural language)")
	updateCmd.Flags().StringVar(&updateTime, "time", "", "Start time HH:MM")
	updateCmd.Flags().StringVar(&updateType, "type", "", "Session type label")
	updateCmd.Flags().StringVar(&updateVolume, "volume", "", "Volume description")
	updateCmd.Flags().StringVar(&updateTarget, "target", "", "Target pace, e.g. 5:00/km")
	updateCmd.Flags().Float64Var(&updateDistance, "distance", 0, "Estimated distance in km")
	updateCmd.Flags().BoolVar(&updateWomen, "women", false, "Women-only (--women=false to open it)")
}

// patchFromFlags builds a Patch from the flags the user set. Date and time
// changes rewrite the canonical fields and the display label together.
func patchFromFlags(cmd *cobra.Command, current models.Session, now time.Time) (store.Patch, error) {
	var p store.Patch
	flags := cmd.Flags()

	if flags.Changed("title") {
		p.Title = &updateTitle
	}
	if flags.Changed("spot") {
		p.Spot = &updateSpot
	}
	if flags.Changed("type") {
		p.TypeLabel = &updateType
	}
	if flags.Changed("volume") {
		p.Volume = &updateVolume
	}
	if flags.Changed("target") {
		p.TargetPace = &updateTarget
	}
	if flags.Changed("distance") {
		p.EstimatedDistanceKm = &updateDistance
	}
	if flags.Changed("women") {
		g := ""
		if updateWomen {
			g = models.GenderWomenOnly
		}
		p.GenderRestriction = &g
	}

	if flags.Changed("date") || flags.Changed("time") {
		dateISO, ok := datetime.SessionDate(current, now)
		if flags.Changed("date") {
			d, parsed := datetime.ParseHumanDate(updateDate, now)
			if !parsed {
				return p, fmt.Errorf("unrecognized --date %q", updateDate)
			}
			dateISO, ok = datetime.FormatDateISO(d), true
		}
		if !ok {
			return p, fmt.Errorf("session %s has no usable date, pass --date", current.ID)
		}

		minutes := current.Minutes()
		if flags.Changed("time") {
			m, parsed := datetime.ParseTimeLabel(updateTime)
			if !parsed {
				return p, fmt.Errorf("invalid --time %q, expected HH:MM", updateTime)
			}
			minutes = m
		}

		date, _ := datetime.ParseDateISO(dateISO, now.Location())
		label := datetime.FormatLabel(date, minutes)
		p.DateISO = &dateISO
		p.TimeMinutes = &minutes
		p.DateLabel = &label
	}
	return p, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]
	now := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := a.Catalog.Get(cmd.Context(), id, now)
	if err != nil {
		return err
	}
	patch, err := patchFromFlags(cmd, current, now)
	if err != nil {
		return err
	}

	updated, err := a.Catalog.Update(cmd.Context(), id, patch, now)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	fmt.Printf("Updated session %s\n", updated.ID)
	fmt.Printf("  %s · %s\n", updated.Title, updated.Spot)
	fmt.Printf("  %s\n", updated.DateLabel)
	return nil
}
