package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/export"
	"github.com/neilberkman/runclub/internal/core/models"
)

var (
	exportOutput string
	exportFormat string
	exportJoined bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to JSON or Excel",
	Long: `Export upcoming sessions (all bundled and custom ones) to a file.

By default exports to the current directory as runclub-sessions.<format>.
Use --output to specify a custom path, or - for stdout (JSON only).

Examples:
  runclub export
  runclub export --format xlsx
  runclub export --joined -o ~/mes-sorties.xlsx --format xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: runclub-sessions.<format> in current directory)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or xlsx")
	exportCmd.Flags().BoolVar(&exportJoined, "joined", false, "Only export sessions you joined")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, ok := export.ParseFormat(exportFormat)
	if !ok {
		return fmt.Errorf("unknown format %q (json, xlsx)", exportFormat)
	}
	if exportOutput == "-" && format != export.FormatJSON {
		return fmt.Errorf("only json can be written to stdout")
	}

	now := time.Now()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()
	ctx := cmd.Context()

	entries, err := a.Catalog.Joined(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load joined sessions: %w", err)
	}
	joined := make(map[string]string, len(entries))
	var sessions []models.Session
	for _, e := range entries {
		joined[e.Session.ID] = e.GroupID
		if exportJoined {
			sessions = append(sessions, e.Session)
		}
	}
	if !exportJoined {
		sessions, err = a.Catalog.Find(ctx, models.FilterState{}, nil, now)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
	}

	if exportOutput == "-" {
		return export.Write(os.Stdout, format, sessions, joined)
	}

	// Determine output path
	outputPath := exportOutput
	if outputPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputPath = filepath.Join(cwd, "runclub-sessions."+string(format))
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := export.Write(file, format, sessions, joined); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Exported %d session(s) to: %s\n", len(sessions), outputPath)
	return nil
}
