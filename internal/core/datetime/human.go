package datetime

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var humanParser = newHumanParser()

func newHumanParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseHumanDate parses a user-typed date ("tomorrow", "next friday",
// "2025-11-10", "10/11/2025") relative to now
func ParseHumanDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try standard formats first so ISO dates are never reinterpreted
	formats := []string{
		isoLayout,
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"02/01/2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, now.Location()); err == nil {
			return t, true
		}
	}

	// Natural language ("next-week" reads as "next week")
	result, err := humanParser.Parse(strings.ReplaceAll(s, "-", " "), now)
	if err == nil && result != nil {
		return result.Time, true
	}

	return time.Time{}, false
}
