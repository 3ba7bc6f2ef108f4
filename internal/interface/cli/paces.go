package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/config"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/records"
	"github.com/neilberkman/runclub/internal/core/search"
)

var pacesCmd = &cobra.Command{
	Use:   "paces",
	Short: "Show your reference paces",
	Long: `Show the reference pace zones used to rank sessions.

Zones live in config.toml. Set them by hand with 'paces set', or derive
them from your personal records with 'paces suggest --save'.`,
	RunE: runPacesShow,
}

var pacesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set reference pace zones",
	Long: `Set one or more zones as lo-hi paces per km. Pass "none" to clear a zone.

Examples:
  runclub paces set --easy 5:40-6:10 --threshold 4:35-4:45
  runclub paces set --intervals none`,
	RunE: runPacesSet,
}

var pacesSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest zones from your personal records",
	RunE:  runPacesSuggest,
}

var (
	pacesEasy      string
	pacesTempo     string
	pacesThreshold string
	pacesIntervals string
	pacesSave      bool
)

func init() {
	rootCmd.AddCommand(pacesCmd)
	pacesCmd.AddCommand(pacesSetCmd)
	pacesCmd.AddCommand(pacesSuggestCmd)

	pacesSetCmd.Flags().StringVar(&pacesEasy, "easy", "", "Easy zone, e.g. 5:40-6:10")
	pacesSetCmd.Flags().StringVar(&pacesTempo, "tempo", "", "Tempo zone")
	pacesSetCmd.Flags().StringVar(&pacesThreshold, "threshold", "", "Threshold zone")
	pacesSetCmd.Flags().StringVar(&pacesIntervals, "intervals", "", "Intervals zone")

	pacesSuggestCmd.Flags().BoolVar(&pacesSave, "save", false, "Write the suggestion to config.toml")
}

func runPacesShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.Paces.Points()) == 0 {
		fmt.Println("No reference paces set. Sessions are listed by date.")
		fmt.Println("Use 'runclub paces set' or 'runclub paces suggest --save'.")
		return nil
	}
	printPaces(cfg.Paces)
	return nil
}

func printPaces(p models.ReferencePaces) {
	zones := []struct {
		name   string
		lo, hi *float64
	}{
		{"Easy", p.EasyMin, p.EasyMax},
		{"Tempo", p.TempoMin, p.TempoMax},
		{"Threshold", p.ThresholdMin, p.ThresholdMax},
		{"Intervals", p.IntervalsMin, p.IntervalsMax},
	}
	for _, z := range zones {
		fmt.Printf("%-10s %s\n", z.name+":", formatZone(z.lo, z.hi))
	}
}

func formatZone(lo, hi *float64) string {
	switch {
	case lo != nil && hi != nil:
		return models.FormatPace(*lo) + "-" + models.FormatPace(*hi) + "/km"
	case lo != nil:
		return "from " + models.FormatPace(*lo) + "/km"
	case hi != nil:
		return "up to " + models.FormatPace(*hi) + "/km"
	}
	return "-"
}

// setZone parses value into lo/hi; "none" clears the zone
func setZone(value string, lo, hi **float64) error {
	if value == "none" {
		*lo, *hi = nil, nil
		return nil
	}
	w, ok := search.ParsePaceWindow(value)
	if !ok {
		return fmt.Errorf("invalid zone %q, expected m:ss-m:ss", value)
	}
	*lo, *hi = &w.Min, &w.Max
	return nil
}

func runPacesSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := cfg.Paces
	updates := []struct {
		flag   string
		value  string
		lo, hi **float64
	}{
		{"easy", pacesEasy, &p.EasyMin, &p.EasyMax},
		{"tempo", pacesTempo, &p.TempoMin, &p.TempoMax},
		{"threshold", pacesThreshold, &p.ThresholdMin, &p.ThresholdMax},
		{"intervals", pacesIntervals, &p.IntervalsMin, &p.IntervalsMax},
	}

	changed := false
	for _, u := range updates {
		if !cmd.Flags().Changed(u.flag) {
			continue
		}
		if err := setZone(u.value, u.lo, u.hi); err != nil {
			return fmt.Errorf("--%s: %w", u.flag, err)
		}
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to set, pass at least one of --easy, --tempo, --threshold, --intervals")
	}

	cfg.Paces = p
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	printPaces(p)
	return nil
}

func runPacesSuggest(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.Records.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	p, ok := records.SuggestPaces(recs)
	if !ok {
		return fmt.Errorf("no 10k or 5k record yet, add one with 'runclub records add'")
	}

	printPaces(p)
	if !pacesSave {
		fmt.Println()
		fmt.Println("Run with --save to use these zones.")
		return nil
	}

	a.Config.Paces = p
	if err := config.Save(a.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println()
	fmt.Println("Saved to config.toml")
	return nil
}
