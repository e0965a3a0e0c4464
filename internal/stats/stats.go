package stats

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"backend-journeystress/internal/survey"
)

// StressSummary describes the distribution of observed stress ratings.
type StressSummary struct {
	Count      int       `json:"count"`
	Mean       float64   `json:"mean"`
	Median     float64   `json:"median"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Q1         float64   `json:"q1"`
	Q3         float64   `json:"q3"`
	IQR        float64   `json:"iqr"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Outliers   []float64 `json:"outliers"`
}

// StressValues collects the observed stress ratings of a batch. Absent
// ratings are skipped, never counted as 0.
func StressValues(records []survey.Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Stress != nil {
			out = append(out, *r.Stress)
		}
	}
	return out
}

// TotalDistance sums per-record distance over the whole batch.
func TotalDistance(records []survey.Record) float64 {
	d := make([]float64, len(records))
	for i, r := range records {
		d[i] = r.Distance
	}
	return floats.Sum(d)
}

func Summarize(values []float64) (StressSummary, error) {
	if len(values) == 0 {
		return StressSummary{}, &survey.EmptyInputError{What: "stress values"}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, err := mstats.Mean(sorted)
	if err != nil {
		return StressSummary{}, fmt.Errorf("mean: %w", err)
	}
	median, err := mstats.Median(sorted)
	if err != nil {
		return StressSummary{}, fmt.Errorf("median: %w", err)
	}
	lo, err := mstats.Min(sorted)
	if err != nil {
		return StressSummary{}, fmt.Errorf("min: %w", err)
	}
	hi, err := mstats.Max(sorted)
	if err != nil {
		return StressSummary{}, fmt.Errorf("max: %w", err)
	}

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr

	// Outliers form a set: each distinct value is listed once, ascending.
	outliers := []float64{}
	for _, v := range sorted {
		if v >= lower && v <= upper {
			continue
		}
		if n := len(outliers); n > 0 && outliers[n-1] == v {
			continue
		}
		outliers = append(outliers, v)
	}

	return StressSummary{
		Count:      len(sorted),
		Mean:       mean,
		Median:     median,
		Min:        lo,
		Max:        hi,
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerFence: lower,
		UpperFence: upper,
		Outliers:   outliers,
	}, nil
}

// Quantile interpolates linearly between closest ranks at h = (n-1)p.
// sorted must be ascending and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	i := int(math.Floor(h))
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}
