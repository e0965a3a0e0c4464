package series

// DetectDwell flags every adjacent pair where time passed but less than
// threshold distance was covered. Contiguous segments are not merged.
func DetectDwell(points []AnnotatedPoint, threshold float64) []DwellSegment {
	var out []DwellSegment
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		timeDelta := b.Timestamp.Sub(a.Timestamp)
		distanceDelta := b.CumulativeDistance - a.CumulativeDistance
		if timeDelta > 0 && distanceDelta < threshold {
			out = append(out, DwellSegment{
				StartIndex:    i,
				EndIndex:      i + 1,
				Start:         a.Timestamp,
				End:           b.Timestamp,
				TimeDelta:     timeDelta,
				DistanceDelta: distanceDelta,
			})
		}
	}
	return out
}
