package series

import (
	"backend-journeystress/internal/modes"
	"backend-journeystress/internal/survey"
)

// Annotate derives the per-point view of one participant's series. Cumulative
// distance is computed here once and every downstream step reads it from the
// returned points.
func Annotate(s survey.ParticipantSeries, defaultStress float64) Annotated {
	if len(s.Records) == 0 {
		return Annotated{}
	}

	points := make([]AnnotatedPoint, len(s.Records))
	cumulative := 0.0
	lastStress := defaultStress
	source := StressDefault
	for i, rec := range s.Records {
		cumulative += rec.Distance
		if rec.Stress != nil {
			lastStress = *rec.Stress
			source = StressObserved
		} else if source != StressDefault {
			source = StressCarried
		}
		points[i] = AnnotatedPoint{
			Index:              i,
			Timestamp:          rec.Timestamp,
			Distance:           rec.Distance,
			CumulativeDistance: cumulative,
			Stress:             lastStress,
			StressSource:       source,
			Mode:               rec.Mode,
		}
	}

	last := points[len(points)-1]
	return Annotated{
		Points:        points,
		Segments:      Segments(points),
		TotalDistance: last.CumulativeDistance,
		Start:         points[0].Timestamp,
		End:           last.Timestamp,
	}
}

// ModeChanges returns the indices where a new mode run starts. Index 0 is
// always a change.
func ModeChanges(points []AnnotatedPoint) []int {
	if len(points) == 0 {
		return nil
	}
	out := []int{0}
	prev := modes.Normalize(points[0].Mode)
	for i := 1; i < len(points); i++ {
		m := modes.Normalize(points[i].Mode)
		if m != prev {
			out = append(out, i)
		}
		prev = m
	}
	return out
}

func Segments(points []AnnotatedPoint) []ModeSegment {
	changes := ModeChanges(points)
	segments := make([]ModeSegment, 0, len(changes))
	for n, start := range changes {
		end := len(points) - 1
		if n+1 < len(changes) {
			end = changes[n+1] - 1
		}
		segments = append(segments, ModeSegment{
			Mode:          modes.Normalize(points[start].Mode),
			StartIndex:    start,
			EndIndex:      end,
			StartDistance: points[start].CumulativeDistance,
			EndDistance:   points[end].CumulativeDistance,
		})
	}
	return segments
}
