package dataset

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"backend-journeystress/internal/db"
	"backend-journeystress/internal/ingest"
	"backend-journeystress/internal/survey"
)

type BucketSummary struct {
	Day     string `json:"day"`
	Range   string `json:"range"`
	Samples int    `json:"samples"`
}

const schema = `
CREATE TABLE IF NOT EXISTS survey_samples (
	id          BIGSERIAL PRIMARY KEY,
	day         TEXT NOT NULL,
	time_range  TEXT NOT NULL,
	participant TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	lon         DOUBLE PRECISION NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	distance    DOUBLE PRECISION,
	stress      DOUBLE PRECISION,
	mode        TEXT,
	colour      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS survey_samples_bucket_idx ON survey_samples (day, time_range, id)`

// Store reads survey samples kept in the survey_samples table.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

func (s *Store) Buckets(ctx context.Context) ([]BucketSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT day, time_range, COUNT(*)
		FROM survey_samples
		GROUP BY day, time_range
		ORDER BY day, time_range
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BucketSummary{}
	for rows.Next() {
		var b BucketSummary
		if err := rows.Scan(&b.Day, &b.Range, &b.Samples); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Features loads one bucket in insertion order.
func (s *Store) Features(ctx context.Context, bucket ingest.Bucket) ([]survey.RawFeature, error) {
	rows, err := s.db.Query(ctx, `
		SELECT participant, recorded_at, lon, lat, distance, stress, mode, colour
		FROM survey_samples
		WHERE day=$1 AND time_range=$2
		ORDER BY id
	`, bucket.Day, bucket.Range)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []survey.RawFeature
	for rows.Next() {
		var (
			f        survey.RawFeature
			lon, lat float64
			distance *float64
			stress   *float64
		)
		if err := rows.Scan(&f.ParticipantID, &f.Timestamp, &lon, &lat, &distance, &stress, &f.Mode, &f.Color); err != nil {
			return nil, err
		}
		f.Position = orb.Point{lon, lat}
		if distance != nil {
			f.Distance = *distance
		}
		if stress != nil {
			f.Stress = *stress
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Import appends converted features to a bucket and returns how many rows
// were written.
func (s *Store) Import(ctx context.Context, bucket ingest.Bucket, features []survey.RawFeature) (int, error) {
	for i, f := range features {
		distance, err := optionalFloat(f.Distance)
		if err != nil {
			return i, &survey.ParseError{Index: i, Field: "distance", Value: fmt.Sprint(f.Distance), Err: err}
		}
		stress, err := optionalFloat(f.Stress)
		if err != nil {
			return i, &survey.ParseError{Index: i, Field: "stress", Value: fmt.Sprint(f.Stress), Err: err}
		}
		_, err = s.db.Exec(ctx, `
			INSERT INTO survey_samples (day, time_range, participant, recorded_at, lon, lat, distance, stress, mode, colour)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, bucket.Day, bucket.Range, f.ParticipantID, f.Timestamp, f.Position.Lon(), f.Position.Lat(), distance, stress, f.Mode, f.Color)
		if err != nil {
			return i, err
		}
	}
	return len(features), nil
}

func optionalFloat(v any) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	default:
		return nil, fmt.Errorf("unsupported numeric value %T", v)
	}
}
