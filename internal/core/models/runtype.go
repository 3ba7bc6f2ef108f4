package models

import (
	"regexp"

	"github.com/neilberkman/runclub/internal/core/textutil"
)

// RunTypeID is the closed set of session kinds used for filtering
type RunTypeID string

const (
	RunTypeEasy         RunTypeID = "easy"
	RunTypeRecovery     RunTypeID = "recovery"
	RunTypeTempo        RunTypeID = "tempo"
	RunTypeThreshold    RunTypeID = "threshold"
	RunTypeInterval200  RunTypeID = "intervals_200"
	RunTypeInterval400  RunTypeID = "intervals_400"
	RunTypeInterval800  RunTypeID = "intervals_800"
	RunTypeInterval1000 RunTypeID = "intervals_1000"
	RunTypeFartlek      RunTypeID = "fartlek"
	RunTypeLong         RunTypeID = "long"
	RunTypeHillRepeats  RunTypeID = "hill_repeats"
	RunTypeTrack        RunTypeID = "track"
	RunTypeProgressif   RunTypeID = "progressif"

	// RunTypeWalking only comes from a linked workout; no label rule yields it.
	RunTypeWalking RunTypeID = "walking"
)

// RunTypeRule maps a label pattern to a run type
type RunTypeRule struct {
	ID      RunTypeID
	Pattern *regexp.Regexp
}

// RunTypeRules is evaluated in order against the folded label; the first
// matching rule wins.
var RunTypeRules = []RunTypeRule{
	{RunTypeRecovery, regexp.MustCompile(`\b(recup|recuperation|recovery|regeneration|decrassage)\b`)},
	{RunTypeHillRepeats, regexp.MustCompile(`\b(cotes?|hills?|hill repeats)\b`)},
	{RunTypeTrack, regexp.MustCompile(`\b(piste|track)\b`)},
	{RunTypeFartlek, regexp.MustCompile(`fartlek`)},
	{RunTypeProgressif, regexp.MustCompile(`progressi(f|ve)`)},
	{RunTypeThreshold, regexp.MustCompile(`\b(seuil|threshold)\b`)},
	{RunTypeTempo, regexp.MustCompile(`\b(tempo|allure|as10|as21|as42)\b`)},
	{RunTypeInterval200, regexp.MustCompile(`(^|[^0-9])200( ?m)?([^0-9]|$)`)},
	{RunTypeInterval400, regexp.MustCompile(`(^|[^0-9])400( ?m)?([^0-9]|$)`)},
	{RunTypeInterval800, regexp.MustCompile(`(^|[^0-9])800( ?m)?([^0-9]|$)`)},
	{RunTypeInterval1000, regexp.MustCompile(`(^|[^0-9])(1000( ?m)?|1 ?km)([^0-9]|$)`)},
	{RunTypeInterval400, regexp.MustCompile(`\b(vma|fractionne|intervals?|repetitions)\b`)},
	{RunTypeLong, regexp.MustCompile(`\b(sortie longue|long run|longue|long|sortie)\b`)},
	{RunTypeEasy, regexp.MustCompile(`\b(footing|easy|endurance|ef|jogging|facile)\b`)},
}

// ClassifyTypeLabel derives a run type from a free-text label
func ClassifyTypeLabel(label string) (RunTypeID, bool) {
	folded := textutil.Fold(label)
	for _, rule := range RunTypeRules {
		if rule.Pattern.MatchString(folded) {
			return rule.ID, true
		}
	}
	return "", false
}

// AllRunTypes lists every run type, label-derived ones first
func AllRunTypes() []RunTypeID {
	return []RunTypeID{
		RunTypeEasy, RunTypeRecovery, RunTypeTempo, RunTypeThreshold,
		RunTypeInterval200, RunTypeInterval400, RunTypeInterval800, RunTypeInterval1000,
		RunTypeFartlek, RunTypeLong, RunTypeHillRepeats, RunTypeTrack, RunTypeProgressif,
		RunTypeWalking,
	}
}

// ParseRunType validates a run type id given by a user
func ParseRunType(s string) (RunTypeID, bool) {
	for _, t := range AllRunTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
