// Package processor runs antimeridian correction over configured GeoJSON layers.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/dateline/internal/antimeridian"
	"github.com/woozymasta/dateline/internal/config"
	"github.com/woozymasta/dateline/internal/geo"
	"github.com/woozymasta/dateline/internal/preview"
)

// ErrLayerMissing indicates the layer's source file does not exist.
var ErrLayerMissing = errors.New("processor: layer source file not found")

// RunOptions are the command line switches that apply to every layer.
type RunOptions struct {
	Encode  geo.EncodeOptions
	Workers int
	Force   bool
	Preview bool
}

// LayerReport is the outcome of one layer.
type LayerReport struct {
	Err      error
	Layer    string
	Output   string
	Stats    Stats
	Duration time.Duration
	Skipped  bool
}

// ProcessLayers runs every layer in order. A failing layer is logged and
// reported but does not stop the others.
func ProcessLayers(ctx context.Context, cfg *config.Config, layers []config.Layer, opts RunOptions, m *Metrics) []LayerReport {
	reports := make([]LayerReport, 0, len(layers))

	for _, l := range layers {
		if ctx.Err() != nil {
			break
		}

		rep := ProcessLayer(ctx, cfg, l, opts)
		reports = append(reports, rep)

		switch {
		case errors.Is(rep.Err, ErrLayerMissing):
			log.Warn().Str("layer", l.Name).Str("path", cfg.SourcePath(l)).Msg("Skipping layer: file not found")
		case rep.Err != nil:
			log.Error().Err(rep.Err).Str("layer", l.Name).Msg("Failed to process layer")
			if m != nil {
				m.Failed(l.Name)
			}
		case !rep.Skipped && m != nil:
			m.Observe(l.Name, rep.Stats, rep.Duration)
		}
	}

	return reports
}

// ProcessLayer reads the layer's source collection, corrects it and writes
// the result (and optionally a preview) into the output directory.
func ProcessLayer(ctx context.Context, cfg *config.Config, l config.Layer, opts RunOptions) LayerReport {
	start := time.Now()
	src, dst := cfg.SourcePath(l), cfg.OutputPath(l)
	rep := LayerReport{Layer: l.Name, Output: dst}

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			rep.Err = fmt.Errorf("%w: %s", ErrLayerMissing, src)
		} else {
			rep.Err = err
		}
		return rep
	}

	// Check if output exists
	if _, err := os.Stat(dst); err == nil && !opts.Force {
		log.Debug().Str("layer", l.Name).Str("path", dst).Msg("Output file exists, skipping")
		rep.Skipped = true
		return rep
	}

	lopts := cfg.Options(l)
	n, err := antimeridian.New(lopts)
	if err != nil {
		rep.Err = err
		return rep
	}

	log.Info().
		Str("layer", l.Name).
		Str("source", src).
		Str("policy", string(lopts.Policy)).
		Msg("Processing layer")

	fc, err := geo.ReadFile(src)
	if err != nil {
		rep.Err = fmt.Errorf("read %s: %w", src, err)
		return rep
	}

	out, stats, err := NewPipeline(n, l.Name, opts.Workers).Run(ctx, fc)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Stats = stats

	if err := geo.WriteFile(dst, out, opts.Encode); err != nil {
		rep.Err = fmt.Errorf("write %s: %w", dst, err)
		return rep
	}

	if opts.Preview || cfg.Preview {
		path := cfg.PreviewPath(l)
		if err := preview.WriteFile(path, out, preview.Options{}); err != nil {
			log.Error().Err(err).Str("layer", l.Name).Str("path", path).Msg("Failed to render preview")
		}
	}

	rep.Duration = time.Since(start)

	log.Info().
		Str("layer", l.Name).
		Int("features_in", stats.Input).
		Int("features_out", stats.Output).
		Int("fixed", stats.Fixed()).
		Int("dropped", stats.Dropped).
		Int("passed_through", stats.PassedThrough).
		Int("warnings", stats.Warnings).
		Dur("duration", rep.Duration).
		Str("output", dst).
		Msg("Layer done")

	return rep
}
