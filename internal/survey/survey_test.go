package survey

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

func strPtr(s string) *string { return &s }

func TestNormalizeParsesFields(t *testing.T) {
	raw := []RawFeature{
		{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Position: orb.Point{10.54, 52.30}, Stress: 5.0, Mode: strPtr("ButtonBus"), Color: "red"},
		{ParticipantID: "1", Timestamp: "2024-03-04 07:01:00", Position: orb.Point{10.55, 52.30}, Distance: 120.5},
		{ParticipantID: "2", Timestamp: "2024-03-04 07:02:00", Distance: json.Number("40"), Stress: "NA"},
		{ParticipantID: "2", Timestamp: "2024-03-04 07:03:00", Distance: "15", Stress: "3"},
	}

	records, err := Normalize(raw, DefaultTimestampLayout)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0].Distance != 0 {
		t.Fatalf("absent distance should be 0, got %v", records[0].Distance)
	}
	if records[0].Stress == nil || *records[0].Stress != 5 {
		t.Fatalf("expected stress 5")
	}
	if records[1].Stress != nil {
		t.Fatalf("absent stress must stay absent")
	}
	if records[2].Stress != nil {
		t.Fatalf("NA stress must stay absent")
	}
	if records[2].Distance != 40 || records[3].Distance != 15 {
		t.Fatalf("unexpected distances: %v %v", records[2].Distance, records[3].Distance)
	}
	want := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	if !records[0].Timestamp.Equal(want) {
		t.Fatalf("unexpected timestamp %v", records[0].Timestamp)
	}
	if records[0].Mode == nil || *records[0].Mode != "ButtonBus" || records[0].Color != "red" {
		t.Fatalf("mode/color not passed through")
	}
}

func TestNormalizeRejectsBadTimestamp(t *testing.T) {
	raw := []RawFeature{
		{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00"},
		{ParticipantID: "1", Timestamp: "2024-03-04T07:01:00Z"},
	}
	records, err := Normalize(raw, DefaultTimestampLayout)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Index != 1 || perr.Field != "timestamp" {
		t.Fatalf("unexpected parse error: %+v", perr)
	}
	if records != nil {
		t.Fatalf("no partial records expected")
	}
}

func TestNormalizeRejectsMalformedNumbers(t *testing.T) {
	cases := []RawFeature{
		{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Distance: "far"},
		{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Stress: "high"},
		{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Distance: true},
		{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Distance: "NaN"},
	}
	for i, c := range cases {
		_, err := Normalize([]RawFeature{c}, DefaultTimestampLayout)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("case %d: expected ParseError, got %v", i, err)
		}
	}
}

func TestNormalizeValidation(t *testing.T) {
	_, err := Normalize([]RawFeature{{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Distance: -1.0}}, "")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "distance" {
		t.Fatalf("expected distance ValidationError, got %v", err)
	}

	_, err = Normalize([]RawFeature{{ParticipantID: " ", Timestamp: "2024-03-04 07:00:00"}}, "")
	if !errors.As(err, &verr) || verr.Field != "participant" {
		t.Fatalf("expected participant ValidationError, got %v", err)
	}

	// Position is opaque to the core and passes through unchecked.
	records, err := Normalize([]RawFeature{{ParticipantID: "1", Timestamp: "2024-03-04 07:00:00", Position: orb.Point{200, 10}}}, "")
	if err != nil || records[0].Position != (orb.Point{200, 10}) {
		t.Fatalf("expected position to pass through, got %v", err)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil, DefaultTimestampLayout)
	var eerr *EmptyInputError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected EmptyInputError, got %v", err)
	}
}

func TestGroupSortsStablyAndKeepsOrder(t *testing.T) {
	base := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	records := []Record{
		{ParticipantID: "b", Timestamp: base.Add(2 * time.Minute), Distance: 1},
		{ParticipantID: "a", Timestamp: base.Add(time.Minute), Distance: 2},
		{ParticipantID: "b", Timestamp: base, Distance: 3},
		{ParticipantID: "b", Timestamp: base, Distance: 4},
		{ParticipantID: "a", Timestamp: base, Distance: 5},
	}

	groups := Group(records)
	if len(groups.Order) != 2 || groups.Order[0] != "b" || groups.Order[1] != "a" {
		t.Fatalf("unexpected order %v", groups.Order)
	}

	b := groups.Series["b"].Records
	if len(b) != 3 {
		t.Fatalf("expected 3 records for b")
	}
	if b[0].Distance != 3 || b[1].Distance != 4 || b[2].Distance != 1 {
		t.Fatalf("expected stable timestamp sort, got %v %v %v", b[0].Distance, b[1].Distance, b[2].Distance)
	}

	a := groups.Series["a"].Records
	if a[0].Distance != 5 || a[1].Distance != 2 {
		t.Fatalf("unexpected order for a")
	}
	if records[0].Distance != 1 {
		t.Fatalf("input slice must not be reordered")
	}
}
