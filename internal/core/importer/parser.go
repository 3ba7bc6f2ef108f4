package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/neilberkman/runclub/internal/core/models"
)

// ParsedFile is the content of one session file
type ParsedFile struct {
	Path      string
	Sessions  []models.Session
	BadLines  int // JSONL lines that did not decode
	FileSize  int64
	FileMtime time.Time
}

// ParseFile reads a session file. A .json file holds one array of sessions,
// the layout export writes. A .jsonl file holds one session per line;
// malformed lines are reported and skipped.
func ParseFile(path string) (parsed *ParsedFile, err error) {
	file, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("failed to open file: %w", ferr)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	parsed = &ParsedFile{
		Path:      path,
		FileSize:  info.Size(),
		FileMtime: info.ModTime(),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.NewDecoder(file).Decode(&parsed.Sessions); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}

	case ".jsonl":
		// Configure scanner with larger buffer for long lines (10MB max)
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var s models.Session
			if err := json.Unmarshal([]byte(line), &s); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %s line %d: %v\n", path, lineNum, err)
				parsed.BadLines++
				continue
			}
			parsed.Sessions = append(parsed.Sessions, s)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json or .jsonl)", filepath.Ext(path))
	}

	return parsed, nil
}

// isSessionFile reports whether path has an extension ParseFile reads
func isSessionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}
