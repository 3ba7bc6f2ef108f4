package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/records"
)

var recordsDate string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List your personal records",
	RunE:  runRecordsList,
}

var recordsAddCmd = &cobra.Command{
	Use:   "add <category> <duration>",
	Short: "Record a race or time trial result",
	Long: `Record a result. Only the fastest effort per category is kept.

Categories: 1k, 5k, 10k, semi, marathon.

Examples:
  runclub records add 10k 47:30
  runclub records add semi 1:45:10 --date 2025-10-19
  runclub records add 5k 22:40 --date "last sunday"`,
	Args: cobra.ExactArgs(2),
	RunE: runRecordsAdd,
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Forget the record of a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsDelete,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsAddCmd)
	recordsCmd.AddCommand(recordsDeleteCmd)
	recordsAddCmd.Flags().StringVar(&recordsDate, "date", "", "When it was run (default today)")
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.Records.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No records yet. Add one with 'runclub records add 10k 47:30'.")
		return nil
	}

	for _, r := range recs {
		fmt.Printf("%-9s %9s  %s/km  %s\n",
			r.Category,
			records.FormatDuration(r.DurationSeconds),
			models.FormatPace(r.Pace()),
			humanize.Time(r.AchievedAt.Time))
	}
	return nil
}

func runRecordsAdd(cmd *cobra.Command, args []string) error {
	category, ok := records.ParseCategory(args[0])
	if !ok {
		return fmt.Errorf("unknown category %q (1k, 5k, 10k, semi, marathon)", args[0])
	}
	seconds, ok := records.ParseDuration(args[1])
	if !ok {
		return fmt.Errorf("invalid duration %q, expected mm:ss or h:mm:ss", args[1])
	}

	now := time.Now()
	achieved := now
	if recordsDate != "" {
		d, ok := datetime.ParseHumanDate(recordsDate, now)
		if !ok {
			return fmt.Errorf("unrecognized --date %q", recordsDate)
		}
		achieved = d
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rec := records.Record{
		Category:        category,
		DistanceMeters:  category.Meters(),
		DurationSeconds: seconds,
		AchievedAt:      records.Timestamp{Time: achieved},
	}
	improved, err := a.Records.Submit(cmd.Context(), rec)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	if !improved {
		fmt.Printf("Kept your existing %s record, it is faster\n", category)
		return nil
	}
	fmt.Printf("New %s record: %s (%s/km)\n", category, records.FormatDuration(seconds), models.FormatPace(rec.Pace()))
	return nil
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	category, ok := records.ParseCategory(args[0])
	if !ok {
		return fmt.Errorf("unknown category %q", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Records.Delete(cmd.Context(), category); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	fmt.Printf("Deleted %s record\n", category)
	return nil
}
