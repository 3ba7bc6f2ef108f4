// Package export writes session lists as JSON or as an Excel workbook
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/neilberkman/runclub/internal/core/models"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "json" or "xlsx" (case-insensitive)
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

const (
	sessionsSheet = "Sessions"
	groupsSheet   = "Groupes"
)

var sessionHeaders = []string{
	"ID", "Titre", "Lieu", "Date", "Heure", "Libellé", "Type", "Volume",
	"Allure cible", "Distance (km)", "Groupe conseillé", "Visibilité", "Groupe hôte", "Réservée", "Groupe rejoint",
}

var groupHeaders = []string{"Session", "Groupe", "Libellé", "Allure", "Moyenne (s/km)"}

// Write encodes sessions to w. joined maps session ids to the group the
// runner picked and fills the "joined" column of the workbook.
func Write(w io.Writer, format Format, sessions []models.Session, joined map[string]string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, sessions)
	case FormatXLSX:
		return WriteXLSX(w, sessions, joined)
	}
	return fmt.Errorf("%w: unknown export format %q", models.ErrInvalidInput, format)
}

// WriteJSON writes the session records as an indented JSON array
func WriteJSON(w io.Writer, sessions []models.Session) error {
	if sessions == nil {
		sessions = []models.Session{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sessions); err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with one row per session and one row per
// offered pace group
func WriteXLSX(w io.Writer, sessions []models.Session, joined map[string]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sessionsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(groupsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, sessionsSheet, 1, toCells(sessionHeaders)); err != nil {
		return err
	}
	if err := writeRow(f, groupsSheet, 1, toCells(groupHeaders)); err != nil {
		return err
	}

	groupRow := 2
	for i, s := range sessions {
		var timeLabel interface{}
		if s.TimeMinutes != nil {
			timeLabel = fmt.Sprintf("%02d:%02d", *s.TimeMinutes/60, *s.TimeMinutes%60)
		}
		row := []interface{}{
			s.ID, s.Title, s.Spot, s.DateISO, timeLabel, s.DateLabel, s.TypeLabel, s.Volume,
			s.TargetPace, s.EstimatedDistanceKm, s.RecommendedGroupID, string(s.Visibility),
			s.HostGroupName, s.GenderRestriction, joined[s.ID],
		}
		if err := writeRow(f, sessionsSheet, i+2, row); err != nil {
			return err
		}

		for _, g := range s.OfferedGroups() {
			cells := []interface{}{s.ID, g.ID, g.Label, g.PaceRange, g.AvgPaceSecondsPerKm}
			if err := writeRow(f, groupsSheet, groupRow, cells); err != nil {
				return err
			}
			groupRow++
		}
	}

	if err := f.SetPanes(sessionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for c, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}
