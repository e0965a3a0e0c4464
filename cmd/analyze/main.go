package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"backend-journeystress/internal/analysis"
	"backend-journeystress/internal/config"
	"backend-journeystress/internal/ingest"
	"backend-journeystress/internal/modes"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inPath  = fs.String("in", "-", "GeoJSON FeatureCollection to analyse, - for stdin")
		outPath = fs.String("out", "", "Write the JSON report here instead of stdout")
		icons   = fs.String("icons", "", "YAML mode icon table (overrides MODE_ICONS_FILE)")
		indent  = fs.Bool("indent", true, "Indent JSON output")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [--in batch.geojson] [--out report.json] [--icons icons.yaml]\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	if *icons != "" {
		cfg.ModeIconsFile = *icons
	}
	table, err := modes.LoadTableFile(cfg.ModeIconsFile)
	if err != nil {
		fmt.Fprintf(stderr, "analyze failed: %v\n", err)
		return 1
	}

	in := stdin
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(stderr, "analyze failed: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	raw, err := ingest.DecodeFeatureCollection(in)
	if err != nil {
		fmt.Fprintf(stderr, "analyze failed: %v\n", err)
		return 1
	}
	report, err := analysis.NewService(analysis.FromConfig(cfg), table, nil).Analyze(context.Background(), raw)
	if err != nil {
		fmt.Fprintf(stderr, "analyze failed: %v\n", err)
		return 1
	}

	out := stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(stderr, "analyze failed: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(stderr, "analyze failed: %v\n", err)
		return 1
	}
	for _, m := range report.UnknownModes {
		fmt.Fprintf(stderr, "warning: no icon for mode %q\n", m)
	}
	return 0
}
