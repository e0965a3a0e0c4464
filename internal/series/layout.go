package series

import (
	"math"

	"backend-journeystress/internal/modes"
)

type LayoutConfig struct {
	Range         float64
	Margin        float64
	FixedOffset   float64
	MinSeparation float64
	MaxAdjustment float64
	IconWidth     float64
}

// LinearScale maps a closed domain onto a closed range. A zero-span domain
// maps everything to the start of the range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

func (s LinearScale) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return s.R0
	}
	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Resolve spaces already-offset coordinates in one left-to-right pass. Only
// the previous placement is consulted, and clamping to the axis wins over
// spacing.
func Resolve(desired []float64, cfg LayoutConfig) []float64 {
	out := make([]float64, len(desired))
	lo := cfg.Margin
	hi := cfg.Range + cfg.Margin - cfg.IconWidth
	last := 0.0
	for i, x := range desired {
		if i > 0 {
			gap := math.Abs(x - last)
			if gap < cfg.MinSeparation {
				x = last + math.Min(cfg.MinSeparation-gap, cfg.MaxAdjustment)
			}
		}
		x = math.Max(lo, math.Min(x, hi))
		out[i] = x
		last = x
	}
	return out
}

// PlaceIcons lays one marker per mode-change event along [0, Range], scaling
// cumulative distance from [minDistance, a.TotalDistance].
func PlaceIcons(a Annotated, minDistance float64, cfg LayoutConfig) []IconPlacement {
	changes := ModeChanges(a.Points)
	if len(changes) == 0 {
		return nil
	}
	scale := LinearScale{D0: minDistance, D1: a.TotalDistance, R0: 0, R1: cfg.Range}
	desired := make([]float64, len(changes))
	for n, i := range changes {
		desired[n] = scale.Map(a.Points[i].CumulativeDistance) + cfg.Margin - cfg.FixedOffset
	}
	resolved := Resolve(desired, cfg)

	out := make([]IconPlacement, len(changes))
	for n, i := range changes {
		p := a.Points[i]
		out[n] = IconPlacement{
			Index:    i,
			Mode:     modes.Normalize(p.Mode),
			Distance: p.CumulativeDistance,
			Position: resolved[n],
		}
	}
	return out
}
