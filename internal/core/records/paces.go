package records

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/neilberkman/runclub/internal/core/models"
)

// Summary describes the runner's records as paces in seconds per km
type Summary struct {
	Count       int
	FastestPace float64
	MeanPace    float64
	MedianPace  float64
	StdDevPace  float64
}

// Summarize computes pace statistics over records
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, nil
	}

	paces := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		paces = append(paces, r.Pace())
	}

	fastest, err := stats.Min(paces)
	if err != nil {
		return Summary{}, fmt.Errorf("fastest pace: %w", err)
	}
	mean, err := stats.Mean(paces)
	if err != nil {
		return Summary{}, fmt.Errorf("mean pace: %w", err)
	}
	median, err := stats.Median(paces)
	if err != nil {
		return Summary{}, fmt.Errorf("median pace: %w", err)
	}
	stdDev, err := stats.StandardDeviation(paces)
	if err != nil {
		return Summary{}, fmt.Errorf("pace deviation: %w", err)
	}

	return Summary{
		Count:       len(records),
		FastestPace: fastest,
		MeanPace:    mean,
		MedianPace:  median,
		StdDevPace:  stdDev,
	}, nil
}

// zoneOffsets are seconds per km added to the 10k pace
var zoneOffsets = struct {
	easy, tempo, threshold, intervals [2]float64
}{
	easy:      [2]float64{60, 90},
	tempo:     [2]float64{15, 25},
	threshold: [2]float64{5, 15},
	intervals: [2]float64{-10, 0},
}

// fiveToTenK approximates 10k pace from 5k pace
const fiveToTenK = 10.0

// SuggestPaces derives reference pace zones from the best 10k, falling back
// to the best 5k. It reports false when neither exists.
func SuggestPaces(records []Record) (models.ReferencePaces, bool) {
	var base float64
	var have5k bool
	var fiveK float64
	for _, r := range records {
		switch r.Category {
		case Category10K:
			base = r.Pace()
		case Category5K:
			fiveK, have5k = r.Pace(), true
		}
	}
	if base == 0 {
		if !have5k {
			return models.ReferencePaces{}, false
		}
		base = fiveK + fiveToTenK
	}

	zone := func(offsets [2]float64) (*float64, *float64) {
		lo, hi := base+offsets[0], base+offsets[1]
		return &lo, &hi
	}
	var p models.ReferencePaces
	p.EasyMin, p.EasyMax = zone(zoneOffsets.easy)
	p.TempoMin, p.TempoMax = zone(zoneOffsets.tempo)
	p.ThresholdMin, p.ThresholdMax = zone(zoneOffsets.threshold)
	p.IntervalsMin, p.IntervalsMax = zone(zoneOffsets.intervals)
	return p, true
}
