package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"backend-journeystress/internal/survey"
)

// Property keys used by survey exports.
const (
	PropTimestamp   = "Timestamp"
	PropParticipant = "Participant"
	PropStress      = "stress_xs"
	PropMode        = "ModeButton_xs"
	PropColour      = "colour"
	PropDistance    = "distance"
	PropAccumulated = "accumulated_distance"
)

// geometryExtras picks up the non-standard "distance" member some exports
// put on the geometry object. orb drops unknown geometry members.
type geometryExtras struct {
	Features []struct {
		Geometry struct {
			Distance any `json:"distance"`
		} `json:"geometry"`
	} `json:"features"`
}

// DecodeFeatureCollection reads a GeoJSON FeatureCollection of Point features
// into raw survey features. Field values are passed through loosely typed;
// survey.Normalize does the validation.
func DecodeFeatureCollection(r io.Reader) ([]survey.RawFeature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &survey.ParseError{Index: -1, Field: "geojson", Err: err}
	}
	var extras geometryExtras
	if err := json.Unmarshal(data, &extras); err != nil {
		return nil, &survey.ParseError{Index: -1, Field: "geojson", Err: err}
	}
	return fromFeatures(fc.Features, extras)
}

// FromCollection converts an in-memory collection, such as one produced by
// Convert. Distances are read from properties.
func FromCollection(fc *geojson.FeatureCollection) ([]survey.RawFeature, error) {
	return fromFeatures(fc.Features, geometryExtras{})
}

func fromFeatures(features []*geojson.Feature, extras geometryExtras) ([]survey.RawFeature, error) {
	out := make([]survey.RawFeature, 0, len(features))
	for i, f := range features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, &survey.ValidationError{Index: i, Field: "geometry", Reason: fmt.Sprintf("expected Point, got %T", f.Geometry)}
		}
		props := f.Properties

		var distance any
		if i < len(extras.Features) {
			distance = extras.Features[i].Geometry.Distance
		}
		if distance == nil {
			distance = props[PropDistance]
		}

		out = append(out, survey.RawFeature{
			ParticipantID: participantID(props[PropParticipant]),
			Timestamp:     stringProp(props, PropTimestamp),
			Position:      pt,
			Distance:      distance,
			Stress:        props[PropStress],
			Mode:          modeTag(props[PropMode]),
			Color:         stringProp(props, PropColour),
		})
	}
	return out, nil
}

func stringProp(props geojson.Properties, key string) string {
	s, _ := props[key].(string)
	return s
}

func participantID(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(p)
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return fmt.Sprint(p)
	}
}

func modeTag(v any) *string {
	var s string
	switch m := v.(type) {
	case nil:
		return nil
	case string:
		s = m
	default:
		s = fmt.Sprint(m)
	}
	if s == "" || s == "NA" {
		return nil
	}
	return &s
}
