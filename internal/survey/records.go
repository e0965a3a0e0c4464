package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var errNotNumeric = errors.New("not a number")

// Normalize turns raw loader output into typed records. The first malformed
// feature rejects the whole batch.
func Normalize(raw []RawFeature, layout string) ([]Record, error) {
	if len(raw) == 0 {
		return nil, &EmptyInputError{What: "records"}
	}
	if layout == "" {
		layout = DefaultTimestampLayout
	}

	out := make([]Record, 0, len(raw))
	for i, f := range raw {
		rec, err := normalizeOne(i, f, layout)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func normalizeOne(i int, f RawFeature, layout string) (Record, error) {
	id := strings.TrimSpace(f.ParticipantID)
	if id == "" {
		return Record{}, &ValidationError{Index: i, Field: "participant", Reason: "missing participant id"}
	}

	ts, err := time.Parse(layout, strings.TrimSpace(f.Timestamp))
	if err != nil {
		return Record{}, &ParseError{Index: i, Field: "timestamp", Value: f.Timestamp, Err: err}
	}

	distance := 0.0
	d, err := numeric(f.Distance)
	if err != nil {
		return Record{}, &ParseError{Index: i, Field: "distance", Value: fmt.Sprint(f.Distance), Err: err}
	}
	if d != nil {
		if *d < 0 {
			return Record{}, &ValidationError{Index: i, Field: "distance", Reason: fmt.Sprintf("negative distance %v", *d)}
		}
		distance = *d
	}

	stress, err := numeric(f.Stress)
	if err != nil {
		return Record{}, &ParseError{Index: i, Field: "stress", Value: fmt.Sprint(f.Stress), Err: err}
	}

	var mode *string
	if f.Mode != nil {
		m := *f.Mode
		mode = &m
	}

	return Record{
		ParticipantID: id,
		Timestamp:     ts,
		Position:      f.Position,
		Distance:      distance,
		Stress:        stress,
		Mode:          mode,
		Color:         f.Color,
	}, nil
}

// numeric coerces a decoded JSON value. nil, "" and "NA" mean absent.
func numeric(v any) (*float64, error) {
	var out float64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *float64:
		if x == nil {
			return nil, nil
		}
		out = *x
	case float64:
		out = x
	case float32:
		out = float64(x)
	case int:
		out = float64(x)
	case int32:
		out = float64(x)
	case int64:
		out = float64(x)
	case uint:
		out = float64(x)
	case uint32:
		out = float64(x)
	case uint64:
		out = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, err
		}
		out = f
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "NA") {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out = f
	default:
		return nil, errNotNumeric
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return nil, errNotNumeric
	}
	return &out, nil
}
