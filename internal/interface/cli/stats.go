package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/models"
	"github.com/neilberkman/runclub/internal/core/records"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Display statistics about the runclub database.

Shows session and joined counts, stored documents, personal record paces,
and storage info.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	now := time.Now()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()
	ctx := cmd.Context()

	fmt.Println("Database Statistics")
	fmt.Println("===================")
	fmt.Println()

	all, err := a.Catalog.Load(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	custom := 0
	for _, s := range all {
		if !a.Catalog.IsSeed(s.ID) {
			custom++
		}
	}
	joined, err := a.Catalog.Joined(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load joined sessions: %w", err)
	}
	fmt.Printf("Total Sessions:    %d (%d bundled, %d custom)\n", len(all), len(all)-custom, custom)
	fmt.Printf("Joined Sessions:   %d\n", len(joined))
	fmt.Println()

	stats, err := a.DB.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if len(stats.Keys) > 0 {
		fmt.Println("Stored Documents:")
		for _, k := range stats.Keys {
			updated := "-"
			if !k.UpdatedAt.IsZero() {
				updated = humanize.Time(k.UpdatedAt)
			}
			fmt.Printf("  %-20s %8s  updated %s\n", k.Key, humanize.Bytes(uint64(k.Bytes)), updated)
		}
		fmt.Println()
	}

	fmt.Printf("Imported Files:    %d\n", stats.ImportedFiles)
	fmt.Printf("Personal Records:  %d\n", stats.TotalRecords)
	if stats.TotalRecords > 0 {
		fmt.Printf("Oldest Record:     %s\n", stats.OldestRecord.Format("Jan 2, 2006"))
		fmt.Printf("Newest Record:     %s\n", stats.NewestRecord.Format("Jan 2, 2006"))

		recs, err := a.Records.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		summary, err := records.Summarize(recs)
		if err != nil {
			return fmt.Errorf("failed to summarize records: %w", err)
		}
		fmt.Printf("Fastest Pace:      %s/km\n", models.FormatPace(summary.FastestPace))
		fmt.Printf("Mean Pace:         %s/km\n", models.FormatPace(summary.MeanPace))
		fmt.Printf("Median Pace:       %s/km\n", models.FormatPace(summary.MedianPace))
		if summary.Count > 1 {
			fmt.Printf("Pace Spread:       ±%.0f s/km\n", summary.StdDevPace)
		}
	}
	fmt.Println()

	// Database file size
	fileInfo, err := os.Stat(a.DB.Path())
	if err != nil {
		return fmt.Errorf("failed to stat database file: %w", err)
	}

	fmt.Printf("Database Location: %s\n", a.DB.Path())
	fmt.Printf("Database Size:     %s\n", humanize.Bytes(uint64(fileInfo.Size())))

	return nil
}
