package analysis

import (
	"encoding/json"
	"errors"
	"time"

	"backend-journeystress/internal/config"
	"backend-journeystress/internal/series"
	"backend-journeystress/internal/stats"
	"backend-journeystress/internal/survey"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	TimestampLayout    string              `json:"timestamp_layout"`
	DefaultStress      float64             `json:"default_stress"`
	DwellThreshold     float64             `json:"dwell_threshold"`
	InclusionThreshold float64             `json:"inclusion_threshold"`
	Layout             series.LayoutConfig `json:"layout"`
	Workers            int                 `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		TimestampLayout:    survey.DefaultTimestampLayout,
		DefaultStress:      0,
		DwellThreshold:     400,
		InclusionThreshold: 800,
		Layout: series.LayoutConfig{
			Range:         600,
			Margin:        20,
			FixedOffset:   10,
			MinSeparation: 30,
			MaxAdjustment: 15,
			IconWidth:     20,
		},
		Workers: 4,
	}
}

func FromConfig(cfg config.Config) Config {
	return Config{
		TimestampLayout:    cfg.TimestampLayout,
		DefaultStress:      cfg.DefaultStress,
		DwellThreshold:     cfg.DwellDistanceThreshold,
		InclusionThreshold: cfg.InclusionDistanceThreshold,
		Layout: series.LayoutConfig{
			Range:         cfg.AxisRange,
			Margin:        cfg.AxisMargin,
			FixedOffset:   cfg.IconOffset,
			MinSeparation: cfg.MinSeparation,
			MaxAdjustment: cfg.MaxAdjustment,
			IconWidth:     cfg.IconWidth,
		},
		Workers: cfg.AnalysisWorkers,
	}
}

type ParticipantResult struct {
	ParticipantID string                 `json:"participant_id"`
	Series        series.Annotated       `json:"series"`
	Dwell         []series.DwellSegment  `json:"dwell"`
	Icons         []series.IconPlacement `json:"icons"`
}

type Excluded struct {
	ParticipantID string    `json:"participant_id"`
	TotalDistance float64   `json:"total_distance"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// Summary is computed over the whole batch, excluded participants included.
// Stress is nil when the batch carries no stress ratings.
type Summary struct {
	Stress        *stats.StressSummary `json:"stress"`
	TotalDistance float64              `json:"total_distance"`
	Records       int                  `json:"records"`
	Participants  int                  `json:"participants"`
}

type Result struct {
	BatchID      string                       `json:"batch_id"`
	Order        []string                     `json:"order"`
	Participants map[string]ParticipantResult `json:"participants"`
	Excluded     []Excluded                   `json:"excluded"`
	Summary      Summary                      `json:"summary"`
}

var batchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("journeystress/batch"))

// BatchKey is stable for equal (records, config) pairs.
func BatchKey(records []survey.Record, cfg Config) (string, error) {
	payload, err := json.Marshal(struct {
		Records []survey.Record `json:"records"`
		Config  Config          `json:"config"`
	}{records, cfg})
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(batchNamespace, payload).String(), nil
}

// Run normalizes a raw batch and analyses it.
func Run(raw []survey.RawFeature, cfg Config) (Result, error) {
	records, err := survey.Normalize(raw, cfg.TimestampLayout)
	if err != nil {
		return Result{}, err
	}
	return Analyze(records, cfg)
}

// Analyze is a pure function of its arguments. Participants fan out to
// workers that each fill their own slot; the result map is built after the
// group has finished.
func Analyze(records []survey.Record, cfg Config) (Result, error) {
	if len(records) == 0 {
		return Result{}, &survey.EmptyInputError{What: "records"}
	}
	id, err := BatchKey(records, cfg)
	if err != nil {
		return Result{}, err
	}

	groups := survey.Group(records)
	slots := make([]ParticipantResult, len(groups.Order))

	var g errgroup.Group
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, pid := range groups.Order {
		i, ps := i, groups.Series[pid]
		g.Go(func() error {
			slots[i] = analyzeParticipant(ps, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		BatchID:      id,
		Order:        []string{},
		Participants: map[string]ParticipantResult{},
		Excluded:     []Excluded{},
	}
	for _, pr := range slots {
		a := pr.Series
		if a.TotalDistance < cfg.InclusionThreshold {
			res.Excluded = append(res.Excluded, Excluded{
				ParticipantID: pr.ParticipantID,
				TotalDistance: a.TotalDistance,
				Start:         a.Start,
				End:           a.End,
			})
			continue
		}
		res.Order = append(res.Order, pr.ParticipantID)
		res.Participants[pr.ParticipantID] = pr
	}

	res.Summary = Summary{
		TotalDistance: stats.TotalDistance(records),
		Records:       len(records),
		Participants:  len(groups.Order),
	}
	summary, err := stats.Summarize(stats.StressValues(records))
	var empty *survey.EmptyInputError
	switch {
	case err == nil:
		res.Summary.Stress = &summary
	case errors.As(err, &empty):
	default:
		return Result{}, err
	}
	return res, nil
}

func analyzeParticipant(ps survey.ParticipantSeries, cfg Config) ParticipantResult {
	a := series.Annotate(ps, cfg.DefaultStress)
	return ParticipantResult{
		ParticipantID: ps.ParticipantID,
		Series:        a,
		Dwell:         series.DetectDwell(a.Points, cfg.DwellThreshold),
		Icons:         series.PlaceIcons(a, minDistance(ps.Records), cfg.Layout),
	}
}

func minDistance(records []survey.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	m := records[0].Distance
	for _, r := range records[1:] {
		if r.Distance < m {
			m = r.Distance
		}
	}
	return m
}
