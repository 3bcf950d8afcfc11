package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/dateline/internal/antimeridian"
	"github.com/woozymasta/dateline/internal/geo"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input       string  `short:"i" long:"in"           description:"Input GeoJSON file. Reads from stdin if empty"`
	Output      string  `short:"o" long:"out"          description:"Output file path. Writes to stdout if empty"`
	Format      string  `short:"f" long:"format"       description:"Output format" choice:"json" choice:"yaml" default:"json"`
	IDProperty  string  `long:"id-property"            description:"Property identifying features" default:"id"`
	EdgeJump    float64 `long:"edge-jump"              description:"Edge-jump threshold in degrees" default:"180"`
	Span        float64 `long:"span"                   description:"Span threshold in degrees" default:"350"`
	Margin      float64 `long:"margin"                 description:"Bounding-box margin in degrees" default:"170"`
	FlaggedOnly bool    `short:"F" long:"flagged-only" description:"List only features flagged by at least one detector"`
}

// FeatureScan is the detector verdicts for one feature.
type FeatureScan struct {
	ID       string  `json:"id" yaml:"id"`
	Type     string  `json:"type" yaml:"type"`
	LonMin   float64 `json:"lon_min" yaml:"lon_min"`
	LonMax   float64 `json:"lon_max" yaml:"lon_max"`
	EdgeJump bool    `json:"edge_jump" yaml:"edge_jump"`
	Span     bool    `json:"span" yaml:"span"`
	BBox     bool    `json:"bbox" yaml:"bbox"`
	// Wrapped is set when a longitude lies outside [-180, 180].
	Wrapped  bool    `json:"wrapped" yaml:"wrapped"`
}

func (s FeatureScan) flagged() bool {
	return s.EdgeJump || s.Span || s.BBox
}

// Totals counts flagged features per detector.
type Totals struct {
	Features    int `json:"features" yaml:"features"`
	Unsupported int `json:"unsupported" yaml:"unsupported"`
	EdgeJump    int `json:"edge_jump" yaml:"edge_jump"`
	Span        int `json:"span" yaml:"span"`
	BBox        int `json:"bbox" yaml:"bbox"`
	Wrapped     int `json:"wrapped" yaml:"wrapped"`
}

// Report is the scan output document.
type Report struct {
	Features []FeatureScan `json:"features" yaml:"features"`
	Totals   Totals        `json:"totals" yaml:"totals"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	fc, err := geo.Decode(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing input: %v\n", err)
		os.Exit(1)
	}

	n, err := antimeridian.New(antimeridian.Options{
		Policy:     antimeridian.SplitInterpolate,
		IDProperty: opts.IDProperty,
		Thresholds: antimeridian.Thresholds{EdgeJump: opts.EdgeJump, Span: opts.Span, BoundsMargin: opts.Margin},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid detector options: %v\n", err)
		os.Exit(1)
	}

	report := scan(fc, n, opts.FlaggedOnly)

	data, err := marshal(report, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling report: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Scanned %d features, %d flagged, report in %s (format: %s)\n",
			report.Totals.Features, len(lo.Filter(report.Features, func(s FeatureScan, _ int) bool { return s.flagged() })),
			opts.Output, opts.Format)
	} else {
		fmt.Println(string(data))
	}
}

// scan runs every detector with n's thresholds and names features by n's
// id property.
func scan(fc *geojson.FeatureCollection, n *antimeridian.Normalizer, flaggedOnly bool) Report {
	t := n.Options().Thresholds
	edge := antimeridian.Detector{Mode: antimeridian.EdgeJump, Thresholds: t}
	span := antimeridian.Detector{Mode: antimeridian.Span, Thresholds: t}
	bbox := antimeridian.Detector{Mode: antimeridian.BoundingBox, Thresholds: t}

	scans := make([]FeatureScan, 0, len(fc.Features))
	unsupported := 0
	for _, f := range fc.Features {
		var mp orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		case orb.MultiPolygon:
			mp = g
		default:
			unsupported++
			continue
		}

		s := FeatureScan{
			ID:       n.FeatureID(f),
			Type:     f.Geometry.GeoJSONType(),
			EdgeJump: edge.MultiPolygon(mp),
			Span:     span.MultiPolygon(mp),
			BBox:     bbox.MultiPolygon(mp),
		}
		s.LonMin, s.LonMax, _ = antimeridian.LonBounds(mp)
		s.Wrapped = geo.NormalizeLongitude(s.LonMin) != s.LonMin || geo.NormalizeLongitude(s.LonMax) != s.LonMax
		scans = append(scans, s)
	}

	report := Report{
		Features: scans,
		Totals: Totals{
			Features:    len(fc.Features),
			Unsupported: unsupported,
			EdgeJump:    lo.CountBy(scans, func(s FeatureScan) bool { return s.EdgeJump }),
			Span:        lo.CountBy(scans, func(s FeatureScan) bool { return s.Span }),
			BBox:        lo.CountBy(scans, func(s FeatureScan) bool { return s.BBox }),
			Wrapped:     lo.CountBy(scans, func(s FeatureScan) bool { return s.Wrapped }),
		},
	}

	if flaggedOnly {
		report.Features = lo.Filter(scans, func(s FeatureScan, _ int) bool { return s.flagged() })
	}

	return report
}

func marshal(r Report, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(r)
	}
	return json.MarshalIndent(r, "", "  ")
}
