package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatPace renders seconds per km as m:ss
func FormatPace(secondsPerKm float64) string {
	total := int(math.Round(secondsPerKm))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParsePace parses "m:ss", "m:ss/km" or a bare number of seconds
func ParsePace(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "/km"))
	if s == "" {
		return 0, false
	}

	mins, secs, found := strings.Cut(s, ":")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return 0, false
		}
		return v, true
	}

	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, false
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec > 59 || len(secs) != 2 {
		return 0, false
	}
	total := float64(m*60 + sec)
	if total <= 0 {
		return 0, false
	}
	return total, true
}
