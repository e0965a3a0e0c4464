package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"backend-journeystress/internal/config"
	"backend-journeystress/internal/dataset"
	"backend-journeystress/internal/db"
	"backend-journeystress/internal/ingest"
	"backend-journeystress/internal/survey"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
)

// importer is the part of the dataset store the converter writes through.
type importer interface {
	EnsureSchema(ctx context.Context) error
	Import(ctx context.Context, bucket ingest.Bucket, features []survey.RawFeature) (int, error)
}

var openStore = func(cfg config.Config) (importer, func(), error) {
	pool, err := db.ConnectPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}
	if pool == nil {
		return nil, nil, fmt.Errorf("POSTGRES_URL is not set")
	}
	return dataset.NewStore(pool), pool.Close, nil
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inPath = fs.String("in", "-", "Survey export CSV, - for stdin")
		outDir = fs.String("out", "data", "Directory for <day>_<range>.geojson files")
		window = fs.String("window", "", "Keep samples within a time of day window, e.g. 06:30-08:00")
		near   = fs.String("near", "", "Keep trips passing within -radius of lon,lat")
		radius = fs.Float64("radius", 2000, "Proximity radius in metres")
		store  = fs.Bool("store", false, "Also import buckets into POSTGRES_URL")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s --in export.csv [--out data] [--window 06:30-08:00] [--near 10.5387,52.2525 --radius 2000] [--store]\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	opts := ingest.ConvertOptions{Layout: cfg.TimestampLayout}
	if *window != "" {
		w, err := ingest.ParseTimeWindow(*window)
		if err != nil {
			fmt.Fprintf(stderr, "convert failed: %v\n", err)
			return 2
		}
		opts.Window = w
	}
	if *near != "" {
		center, err := parsePoint(*near)
		if err != nil {
			fmt.Fprintf(stderr, "convert failed: %v\n", err)
			return 2
		}
		opts.Near = &ingest.Proximity{Center: center, Radius: *radius}
	}

	in := stdin
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(stderr, "convert failed: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	conv, err := ingest.Convert(in, opts)
	if err != nil {
		fmt.Fprintf(stderr, "convert failed: %v\n", err)
		return 1
	}
	files, err := conv.WriteDir(*outDir)
	if err != nil {
		fmt.Fprintf(stderr, "convert failed: %v\n", err)
		return 1
	}
	for _, f := range files {
		fmt.Fprintf(stdout, "wrote %s\n", f)
	}
	if conv.Skipped > 0 {
		fmt.Fprintf(stdout, "skipped %d malformed rows\n", conv.Skipped)
	}

	if *store {
		if err := importBuckets(cfg, conv, stdout); err != nil {
			fmt.Fprintf(stderr, "import failed: %v\n", err)
			return 1
		}
	}
	return 0
}

func importBuckets(cfg config.Config, conv *ingest.Conversion, stdout io.Writer) error {
	st, closeFn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	for _, b := range conv.Order() {
		raw, err := ingest.FromCollection(conv.Buckets[b])
		if err != nil {
			return err
		}
		n, err := st.Import(ctx, b, raw)
		if err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
		fmt.Fprintf(stdout, "imported %d samples into %s\n", n, b)
	}
	return nil
}

func parsePoint(s string) (orb.Point, error) {
	lon, lat, ok := strings.Cut(s, ",")
	if !ok {
		return orb.Point{}, fmt.Errorf("point %q: expected lon,lat", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return orb.Point{x, y}, nil
}
