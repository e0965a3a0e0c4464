package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"backend-journeystress/internal/shared/geo"
	"backend-journeystress/internal/survey"
)

// Column positions in the survey export.
const (
	colTimestamp   = 0
	colParticipant = 1
	colStress      = 5
	colLat         = 7
	colLon         = 8
	colMode        = 24
	minColumns     = 25
)

var Palette = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "brown", "gray", "cyan"}

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var TimeRanges = []string{"morning", "midday", "afternoon", "night"}

type Bucket struct {
	Day   string `json:"day"`
	Range string `json:"range"`
}

func (b Bucket) String() string { return b.Day + "_" + b.Range }

func BucketOf(t time.Time) Bucket {
	// time.Weekday starts on Sunday.
	day := Weekdays[(int(t.Weekday())+6)%7]
	h := t.Hour()
	var r string
	switch {
	case h >= 5 && h < 9:
		r = "morning"
	case h >= 9 && h < 15:
		r = "midday"
	case h >= 15 && h < 20:
		r = "afternoon"
	default:
		r = "night"
	}
	return Bucket{Day: day, Range: r}
}

// TimeWindow keeps samples whose time of day lies in [From, To].
type TimeWindow struct {
	From time.Duration
	To   time.Duration
}

func (w TimeWindow) Contains(t time.Time) bool {
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	return d >= w.From && d <= w.To
}

// ParseTimeWindow reads "HH:MM-HH:MM".
func ParseTimeWindow(s string) (*TimeWindow, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return nil, fmt.Errorf("time window %q: expected HH:MM-HH:MM", s)
	}
	f, err := clock(from)
	if err != nil {
		return nil, err
	}
	t, err := clock(to)
	if err != nil {
		return nil, err
	}
	if t < f {
		return nil, fmt.Errorf("time window %q: end before start", s)
	}
	return &TimeWindow{From: f, To: t}, nil
}

func clock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Proximity keeps a participant's whole trip when any of its samples lies
// within Radius metres of Center.
type Proximity struct {
	Center orb.Point
	Radius float64
}

type ConvertOptions struct {
	Layout string
	Window *TimeWindow
	Near   *Proximity
}

type Conversion struct {
	Buckets map[Bucket]*geojson.FeatureCollection
	Skipped int
}

// Order lists non-empty buckets monday..sunday, morning..night.
func (c *Conversion) Order() []Bucket {
	var out []Bucket
	for _, d := range Weekdays {
		for _, r := range TimeRanges {
			b := Bucket{Day: d, Range: r}
			if fc, ok := c.Buckets[b]; ok && len(fc.Features) > 0 {
				out = append(out, b)
			}
		}
	}
	return out
}

// WriteDir writes one <day>_<range>.geojson file per non-empty bucket.
func (c *Conversion) WriteDir(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, b := range c.Order() {
		data, err := c.Buckets[b].MarshalJSON()
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", b, err)
		}
		path := filepath.Join(dir, b.String()+".geojson")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

type sample struct {
	participant string
	at          time.Time
	feature     *geojson.Feature
}

// Convert turns a survey export CSV into bucketed FeatureCollections. Rows
// that are short or malformed are skipped and counted.
func Convert(r io.Reader, opts ConvertOptions) (*Conversion, error) {
	layout := opts.Layout
	if layout == "" {
		layout = survey.DefaultTimestampLayout
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &survey.EmptyInputError{What: "rows"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	conv := &Conversion{Buckets: map[Bucket]*geojson.FeatureCollection{}}
	colours := map[string]string{}
	var (
		samples     []sample
		prevID      string
		prevPoint   *orb.Point
		accumulated float64
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				conv.Skipped++
				continue
			}
			return nil, err
		}
		if len(row) < minColumns {
			conv.Skipped++
			continue
		}

		pid, err := strconv.Atoi(strings.TrimSpace(row[colParticipant]))
		if err != nil {
			conv.Skipped++
			continue
		}
		at, err := time.Parse(layout, row[colTimestamp])
		if err != nil {
			conv.Skipped++
			continue
		}
		lat, err1 := strconv.ParseFloat(row[colLat], 64)
		lon, err2 := strconv.ParseFloat(row[colLon], 64)
		if err1 != nil || err2 != nil {
			conv.Skipped++
			continue
		}
		if opts.Window != nil && !opts.Window.Contains(at) {
			continue
		}

		id := strconv.Itoa(pid)
		if _, ok := colours[id]; !ok {
			colours[id] = Palette[len(colours)%len(Palette)]
		}
		if id != prevID {
			prevID, prevPoint, accumulated = id, nil, 0
		}

		pt := orb.Point{lon, lat}
		distance := 0.0
		if prevPoint != nil {
			distance = geo.DistanceMeters(*prevPoint, pt)
		}
		accumulated += distance
		prevPoint = &pt

		f := geojson.NewFeature(pt)
		f.Properties[PropTimestamp] = row[colTimestamp]
		f.Properties[PropParticipant] = pid
		f.Properties[PropStress] = naFloat(row[colStress])
		f.Properties[PropMode] = naString(row[colMode])
		f.Properties[PropColour] = colours[id]
		f.Properties[PropDistance] = distance
		f.Properties[PropAccumulated] = accumulated

		samples = append(samples, sample{participant: id, at: at, feature: f})
	}

	if opts.Near != nil {
		samples = nearTrips(samples, *opts.Near)
	}
	for _, s := range samples {
		b := BucketOf(s.at)
		fc, ok := conv.Buckets[b]
		if !ok {
			fc = geojson.NewFeatureCollection()
			conv.Buckets[b] = fc
		}
		fc.Append(s.feature)
	}
	return conv, nil
}

func nearTrips(samples []sample, near Proximity) []sample {
	trips := map[string][]orb.Point{}
	for _, s := range samples {
		trips[s.participant] = append(trips[s.participant], s.feature.Point())
	}
	keep := make(map[string]bool, len(trips))
	for id, points := range trips {
		keep[id] = geo.AnyWithin(points, near.Center, near.Radius)
	}
	out := samples[:0]
	for _, s := range samples {
		if keep[s.participant] {
			out = append(out, s)
		}
	}
	return out
}

func naFloat(s string) any {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return v
}

func naString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return nil
	}
	return s
}
