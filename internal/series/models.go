package series

import "time"

// StressSource tells where an annotated stress value came from.
type StressSource string

const (
	StressObserved StressSource = "observed"
	StressCarried  StressSource = "carried"
	StressDefault  StressSource = "default"
)

type AnnotatedPoint struct {
	Index              int          `json:"index"`
	Timestamp          time.Time    `json:"timestamp"`
	Distance           float64      `json:"distance"`
	CumulativeDistance float64      `json:"cumulative_distance"`
	Stress             float64      `json:"stress"`
	StressSource       StressSource `json:"stress_source"`
	Mode               *string      `json:"mode"`
}

// ModeSegment is a maximal run of points sharing one normalized mode tag.
type ModeSegment struct {
	Mode          string  `json:"mode"`
	StartIndex    int     `json:"start_index"`
	EndIndex      int     `json:"end_index"`
	StartDistance float64 `json:"start_distance"`
	EndDistance   float64 `json:"end_distance"`
}

type Annotated struct {
	Points        []AnnotatedPoint `json:"points"`
	Segments      []ModeSegment    `json:"segments"`
	TotalDistance float64          `json:"total_distance"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
}

type DwellSegment struct {
	StartIndex    int           `json:"start_index"`
	EndIndex      int           `json:"end_index"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	TimeDelta     time.Duration `json:"time_delta"`
	DistanceDelta float64       `json:"distance_delta"`
}

type IconPlacement struct {
	Index    int     `json:"index"`
	Mode     string  `json:"mode"`
	Distance float64 `json:"distance"`
	Position float64 `json:"position"`
}
