package analysis

import (
	"context"
	"log"
	"sort"

	"backend-journeystress/internal/modes"
	"backend-journeystress/internal/survey"
)

// Report is a Result with mode icons resolved for rendering.
type Report struct {
	Result
	Icons        map[string]modes.Icon `json:"icons"`
	UnknownModes []string              `json:"unknown_modes"`
	Cached       bool                  `json:"cached"`
}

type Service struct {
	cfg    Config
	table  modes.Table
	digest string
	cache  Cache
}

// NewService accepts a nil cache.
func NewService(cfg Config, table modes.Table, cache Cache) *Service {
	if table == nil {
		table = modes.DefaultTable()
	}
	return &Service{cfg: cfg, table: table, digest: table.Digest(), cache: cache}
}

// cacheKey covers everything a Report depends on: the batch, the analysis
// config and the icon table used to decorate it.
func (s *Service) cacheKey(batchID string) string {
	return batchID + ":" + s.digest
}

func (s *Service) Analyze(ctx context.Context, raw []survey.RawFeature) (Report, error) {
	records, err := survey.Normalize(raw, s.cfg.TimestampLayout)
	if err != nil {
		return Report{}, err
	}
	id, err := BatchKey(records, s.cfg)
	if err != nil {
		return Report{}, err
	}

	key := s.cacheKey(id)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("analysis cache get %s: %v", key, err)
		} else if ok {
			cached.Cached = true
			return cached, nil
		}
	}

	res, err := Analyze(records, s.cfg)
	if err != nil {
		return Report{}, err
	}
	report := s.decorate(res)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report); err != nil {
			log.Printf("analysis cache set %s: %v", key, err)
		}
	}
	return report, nil
}

func (s *Service) decorate(res Result) Report {
	report := Report{Result: res, Icons: map[string]modes.Icon{}, UnknownModes: []string{}}
	for _, pid := range res.Order {
		for _, icon := range res.Participants[pid].Icons {
			if _, seen := report.Icons[icon.Mode]; seen {
				continue
			}
			resolved := s.table.Lookup(icon.Mode)
			report.Icons[icon.Mode] = resolved
			if !resolved.Known {
				report.UnknownModes = append(report.UnknownModes, icon.Mode)
			}
		}
	}
	sort.Strings(report.UnknownModes)
	return report
}
