package models

// DateBucket is a relative date window evaluated against "now"
type DateBucket string

const (
	BucketToday     DateBucket = "today"
	BucketThisWeek  DateBucket = "thisWeek"
	BucketThisMonth DateBucket = "thisMonth"
)

// DateRange is an inclusive YYYY-MM-DD range
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PaceWindow is an inclusive pace window in seconds per km
type PaceWindow struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState is a client-held session query. A zero field means no
// constraint on that attribute.
type FilterState struct {
	DateBucket        DateBucket  `json:"dateBucket,omitempty"`
	CustomRange       *DateRange  `json:"customRange,omitempty"`
	RunType           RunTypeID   `json:"runType,omitempty"`
	PaceRange         *PaceWindow `json:"paceRange,omitempty"`
	Spot              string      `json:"spot,omitempty"`
	GenderRestriction string      `json:"genderRestriction,omitempty"`
	WalkingOnly       bool        `json:"walkingOnly,omitempty"`
}

// IsEmpty reports whether no constraint is set
func (f FilterState) IsEmpty() bool {
	return f == FilterState{}
}

// ReferencePaces holds the runner's pace zones in seconds per km.
// Each bound is optional.
type ReferencePaces struct {
	EasyMin      *float64 `json:"easyMin,omitempty" toml:"easy_min,omitempty"`
	EasyMax      *float64 `json:"easyMax,omitempty" toml:"easy_max,omitempty"`
	TempoMin     *float64 `json:"tempoMin,omitempty" toml:"tempo_min,omitempty"`
	TempoMax     *float64 `json:"tempoMax,omitempty" toml:"tempo_max,omitempty"`
	ThresholdMin *float64 `json:"thresholdMin,omitempty" toml:"threshold_min,omitempty"`
	ThresholdMax *float64 `json:"thresholdMax,omitempty" toml:"threshold_max,omitempty"`
	IntervalsMin *float64 `json:"intervalsMin,omitempty" toml:"intervals_min,omitempty"`
	IntervalsMax *float64 `json:"intervalsMax,omitempty" toml:"intervals_max,omitempty"`
}

// Points returns one reference pace per defined zone: the midpoint when
// both bounds exist, else the lone bound. Zones are visited in the order
// easy, tempo, threshold, intervals.
func (p ReferencePaces) Points() []float64 {
	zones := [][2]*float64{
		{p.EasyMin, p.EasyMax},
		{p.TempoMin, p.TempoMax},
		{p.ThresholdMin, p.ThresholdMax},
		{p.IntervalsMin, p.IntervalsMax},
	}

	var points []float64
	for _, z := range zones {
		lo, hi := z[0], z[1]
		switch {
		case lo != nil && hi != nil:
			points = append(points, (*lo+*hi)/2)
		case lo != nil:
			points = append(points, *lo)
		case hi != nil:
			points = append(points, *hi)
		}
	}
	return points
}
