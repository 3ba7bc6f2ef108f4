// Package importer loads session files, such as another runner's export,
// into the catalog.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/db"
)

// Importer handles importing session files
type Importer struct {
	db      *db.DB
	catalog *catalog.Catalog
}

// New creates a new importer
func New(database *db.DB, cat *catalog.Catalog) *Importer {
	return &Importer{db: database, catalog: cat}
}

// Result describes one imported file
type Result struct {
	Path     string
	Parsed   int
	Added    int
	BadLines int
	Skipped  bool // same content was imported before
}

// ImportFile adds the sessions of path that the catalog does not know yet.
// Files are remembered by content hash; an unchanged file is skipped unless
// force is set.
func (i *Importer) ImportFile(ctx context.Context, path string, now time.Time, force bool) (Result, error) {
	res := Result{Path: path}

	hash, err := computeFileHash(path)
	if err != nil {
		return res, fmt.Errorf("failed to hash file: %w", err)
	}

	if !force {
		var exists bool
		err = i.db.QueryRow("SELECT EXISTS(SELECT 1 FROM import_log WHERE file_hash = ?)", hash).Scan(&exists)
		if err != nil {
			return res, fmt.Errorf("failed to check import log: %w", err)
		}
		if exists {
			res.Skipped = true
			return res, nil
		}
	}

	parsed, err := ParseFile(path)
	if err != nil {
		return res, err
	}
	res.Parsed = len(parsed.Sessions)
	res.BadLines = parsed.BadLines

	res.Added, err = i.catalog.Import(ctx, parsed.Sessions, now)
	if err != nil {
		return res, fmt.Errorf("failed to import sessions: %w", err)
	}

	_, err = i.db.Exec(`
		INSERT INTO import_log (file_path, file_hash, sessions_imported)
		VALUES (?, ?, ?)
		ON CONFLICT(file_hash) DO UPDATE SET
			file_path = excluded.file_path,
			sessions_imported = excluded.sessions_imported,
			imported_at = CURRENT_TIMESTAMP
	`, path, hash, res.Added)
	if err != nil {
		return res, fmt.Errorf("failed to record import: %w", err)
	}

	return res, nil
}

// FindFiles returns the .json and .jsonl files under dirPath
func FindFiles(dirPath string) ([]string, error) {
	var files []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isSessionFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	return files, nil
}

// ImportDirectory imports every session file under dirPath. Files that fail
// to parse are reported and skipped.
func (i *Importer) ImportDirectory(ctx context.Context, dirPath string, now time.Time, force bool, progress ProgressCallback) ([]Result, error) {
	files, err := FindFiles(dirPath)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := i.ImportFile(ctx, file, now, force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to import %s: %v\n", file, err)
			continue
		}
		results = append(results, res)

		if progress != nil {
			progress.Update(filepath.Base(file), res.Summary())
		}
	}
	if progress != nil {
		progress.Finish()
	}

	return results, nil
}

// Summary renders the result for progress output
func (r Result) Summary() string {
	if r.Skipped {
		return "already imported"
	}
	s := fmt.Sprintf("%d/%d added", r.Added, r.Parsed)
	if r.BadLines > 0 {
		s += fmt.Sprintf(", %d bad lines", r.BadLines)
	}
	return s
}

func computeFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
