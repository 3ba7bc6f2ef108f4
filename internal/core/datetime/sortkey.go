package datetime

import (
	"regexp"
	"strconv"
	"time"

	"github.com/neilberkman/runclub/internal/core/models"
)

var firstIntegerRe = regexp.MustCompile(`\d+`)

// sortKeySource yields a chronological key for a session, or false to defer
// to the next source
type sortKeySource func(s models.Session, now time.Time) (int64, bool)

// sortKeyChain is tried in order: canonical fields, legacy label parse,
// first integer in the label. Records predating canonical fields depend on
// this exact order for a stable sort.
var sortKeyChain = []sortKeySource{
	canonicalSortKey,
	legacyLabelSortKey,
	firstIntegerSortKey,
}

// SortKey returns a chronological sort key for s (unix milliseconds for the
// first two sources), or 0 when nothing is extractable
func SortKey(s models.Session, now time.Time) int64 {
	for _, source := range sortKeyChain {
		if key, ok := source(s, now); ok {
			return key
		}
	}
	return 0
}

func canonicalSortKey(s models.Session, now time.Time) (int64, bool) {
	if !s.HasCanonicalDate() {
		return 0, false
	}
	t, ok := CombineDateTime(s.DateISO, s.Minutes(), now.Location())
	if !ok {
		return 0, false
	}
	return t.UnixMilli(), true
}

func legacyLabelSortKey(s models.Session, now time.Time) (int64, bool) {
	p, ok := ParseLabel(s.DateLabel, now)
	if !ok {
		return 0, false
	}
	return p.Date.UnixMilli(), true
}

// firstIntegerSortKey is a crude last resort for malformed legacy labels
func firstIntegerSortKey(s models.Session, _ time.Time) (int64, bool) {
	m := firstIntegerRe.FindString(s.DateLabel)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
