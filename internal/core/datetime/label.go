package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/neilberkman/runclub/internal/core/textutil"
)

var (
	dayNames = [7]string{"DIMANCHE", "LUNDI", "MARDI", "MERCREDI", "JEUDI", "VENDREDI", "SAMEDI"}

	monthNames = [12]string{
		"JANVIER", "FÉVRIER", "MARS", "AVRIL", "MAI", "JUIN",
		"JUILLET", "AOÛT", "SEPTEMBRE", "OCTOBRE", "NOVEMBRE", "DÉCEMBRE",
	}

	// English spellings are accepted so older labels keep parsing
	englishMonthNames = [12]string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}

	monthLookup = buildMonthLookup()

	timeTokenRe = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	dayTokenRe  = regexp.MustCompile(`\b(\d{1,2})\b`)
)

func buildMonthLookup() map[string]time.Month {
	lookup := make(map[string]time.Month, 24)
	for i, name := range monthNames {
		lookup[textutil.Fold(name)] = time.Month(i + 1)
	}
	for i, name := range englishMonthNames {
		lookup[name] = time.Month(i + 1)
	}
	return lookup
}

// Parsed is the canonical form extracted from a display label
type Parsed struct {
	Date        time.Time
	DateISO     string
	TimeMinutes int
}

// ParseLabel extracts a date and time from a display label such as
// "LUNDI 10 NOVEMBRE 06:00". The weekday is ignored and a missing month
// means the current month. Dates already past relative to now roll over to
// next year. ok is false when any component is missing or invalid.
func ParseLabel(label string, now time.Time) (Parsed, bool) {
	loc := now.Location()

	tm := timeTokenRe.FindStringSubmatchIndex(label)
	if tm == nil {
		return Parsed{}, false
	}
	hour, _ := strconv.Atoi(label[tm[2]:tm[3]])
	minute, _ := strconv.Atoi(label[tm[4]:tm[5]])
	if hour > 23 || minute > 59 {
		return Parsed{}, false
	}

	rest := label[:tm[0]] + " " + label[tm[1]:]
	dm := dayTokenRe.FindStringSubmatch(rest)
	if dm == nil {
		return Parsed{}, false
	}
	day, _ := strconv.Atoi(dm[1])

	month := now.Month()
	for _, token := range strings.Fields(textutil.Fold(rest)) {
		if m, ok := monthLookup[token]; ok {
			month = m
			break
		}
	}

	year := now.Year()
	date, ok := buildDate(year, month, day, hour, minute, loc)
	if !ok {
		return Parsed{}, false
	}
	if date.Before(now) {
		date, ok = buildDate(year+1, month, day, hour, minute, loc)
		if !ok {
			return Parsed{}, false
		}
	}

	return Parsed{
		Date:        date,
		DateISO:     FormatDateISO(date),
		TimeMinutes: hour*60 + minute,
	}, true
}

// buildDate rejects days that time.Date would normalize into the next month
func buildDate(year int, month time.Month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	if day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// FormatLabel renders "<WEEKDAY> <DAY> <MONTH> <HH:MM>" in uppercase French
func FormatLabel(date time.Time, timeMinutes int) string {
	return fmt.Sprintf("%s %d %s %s",
		dayNames[date.Weekday()],
		date.Day(),
		monthNames[date.Month()-1],
		FormatTime(timeMinutes))
}

// FormatDayLabel renders the date part only ("LUNDI 10 NOVEMBRE")
func FormatDayLabel(date time.Time) string {
	return fmt.Sprintf("%s %d %s", dayNames[date.Weekday()], date.Day(), monthNames[date.Month()-1])
}

// FormatTime renders minutes since midnight as HH:MM
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseTimeLabel parses an HH:MM token into minutes since midnight
func ParseTimeLabel(s string) (int, bool) {
	m := timeTokenRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || len(strings.TrimSpace(s)) != len(m[0]) {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
