package search

import (
	"strings"
	"time"

	"github.com/neilberkman/runclub/internal/core/datetime"
	"github.com/neilberkman/runclub/internal/core/models"
)

// ParseQuery extracts filters from a query string and returns the remaining
// free text.
// Supports:
//   - spot:<name> - exact spot, quote names with spaces (spot:"Parc Borély")
//   - type:<id> - run type id (type:fartlek)
//   - when:today, when:week, when:month - relative date bucket
//   - after:<date>, before:<date> - inclusive custom range (after:tomorrow, before:2025-12-01)
//   - pace:<m:ss>-<m:ss> - pace window (pace:4:30-5:15)
//   - women - women-only sessions
//   - walking - walking sessions
func ParseQuery(query string, now time.Time) (models.FilterState, string) {
	var f models.FilterState
	var textParts []string

	for _, token := range tokenize(query) {
		key, value, hasValue := strings.Cut(token, ":")
		key = strings.ToLower(key)

		if !hasValue {
			switch key {
			case "women", "femmes":
				f.GenderRestriction = models.GenderWomenOnly
				continue
			case "walking", "marche":
				f.WalkingOnly = true
				continue
			}
			textParts = append(textParts, token)
			continue
		}

		switch key {
		case "spot":
			if value != "" {
				f.Spot = value
				continue
			}
		case "type":
			if t, ok := models.ParseRunType(strings.ToLower(value)); ok {
				f.RunType = t
				continue
			}
		case "when":
			if b, ok := ParseBucket(value); ok {
				f.DateBucket = b
				continue
			}
		case "after":
			if d, ok := datetime.ParseHumanDate(value, now); ok {
				if f.CustomRange == nil {
					f.CustomRange = &models.DateRange{}
				}
				f.CustomRange.Start = datetime.FormatDateISO(d)
				continue
			}
		case "before":
			if d, ok := datetime.ParseHumanDate(value, now); ok {
				if f.CustomRange == nil {
					f.CustomRange = &models.DateRange{}
				}
				f.CustomRange.End = datetime.FormatDateISO(d)
				continue
			}
		case "pace":
			if w, ok := ParsePaceWindow(value); ok {
				f.PaceRange = &w
				continue
			}
		}

		// Unrecognized filter, keep it as text
		textParts = append(textParts, token)
	}

	return f, strings.Join(textParts, " ")
}

// ParseBucket reads "today", "week" or "month" (French words too)
func ParseBucket(s string) (models.DateBucket, bool) {
	switch strings.ToLower(s) {
	case "today", "aujourdhui":
		return models.BucketToday, true
	case "week", "thisweek", "semaine":
		return models.BucketThisWeek, true
	case "month", "thismonth", "mois":
		return models.BucketThisMonth, true
	}
	return "", false
}

// ParsePaceWindow parses "4:30-5:15"; bounds may be given in either order
func ParsePaceWindow(s string) (models.PaceWindow, bool) {
	loText, hiText, found := strings.Cut(s, "-")
	if !found {
		return models.PaceWindow{}, false
	}
	lo, ok := models.ParsePace(loText)
	if !ok {
		return models.PaceWindow{}, false
	}
	hi, ok := models.ParsePace(hiText)
	if !ok {
		return models.PaceWindow{}, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return models.PaceWindow{Min: lo, Max: hi}, true
}

// tokenize splits on whitespace, keeping double-quoted runs together and
// dropping the quotes
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
