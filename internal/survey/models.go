package survey

import (
	"time"

	"github.com/paulmach/orb"
)

// DefaultTimestampLayout matches survey exports ("YYYY-MM-DD HH:MM:SS").
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// RawFeature is one sample as handed over by a loader. Distance and Stress keep
// whatever shape the decoder produced (number, numeric string, nil).
type RawFeature struct {
	ParticipantID string    `json:"participant_id"`
	Timestamp     string    `json:"timestamp"`
	Position      orb.Point `json:"position"`
	Distance      any       `json:"distance,omitempty"`
	Stress        any       `json:"stress,omitempty"`
	Mode          *string   `json:"mode,omitempty"`
	Color         string    `json:"color,omitempty"`
}

type Record struct {
	ParticipantID string    `json:"participant_id"`
	Timestamp     time.Time `json:"timestamp"`
	Position      orb.Point `json:"position"`
	Distance      float64   `json:"distance"`
	Stress        *float64  `json:"stress"`
	Mode          *string   `json:"mode"`
	Color         string    `json:"color,omitempty"`
}

// ParticipantSeries holds one participant's records sorted by timestamp.
type ParticipantSeries struct {
	ParticipantID string   `json:"participant_id"`
	Records       []Record `json:"records"`
}

// Groups is the grouper output. Order lists participant ids by first appearance.
type Groups struct {
	Order  []string                     `json:"order"`
	Series map[string]ParticipantSeries `json:"series"`
}
