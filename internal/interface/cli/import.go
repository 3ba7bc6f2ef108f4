package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/internal/core/importer"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import sessions from JSON or JSONL files",
	Long: `Import sessions from files, e.g. another runner's 'runclub export'.

A .json file holds an array of sessions; a .jsonl file one session per line.
Directories are searched recursively. Files already imported with the same
content are skipped unless --force is given. Sessions whose id is already
known are never overwritten.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importForce, "force", false, "Re-read files imported before")
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	var files []string
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := importer.FindFiles(path)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		fmt.Println("No session files found")
		return nil
	}

	imp := importer.New(a.DB, a.Catalog)
	progress := importer.NewProgressReporter(os.Stderr, len(files))
	now := time.Now()

	added, failed := 0, 0
	for _, file := range files {
		res, err := imp.ImportFile(cmd.Context(), file, now, importForce)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nWarning: failed to import %s: %v\n", file, err)
			failed++
			continue
		}
		added += res.Added
		progress.Update(file, res.Summary())
	}
	progress.Finish()

	fmt.Printf("%d new session(s)", added)
	if failed > 0 {
		fmt.Printf(", %d file(s) failed", failed)
	}
	fmt.Println()
	return nil
}
