package processor

import (
	"context"
	"errors"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/dateline/internal/antimeridian"
)

// DefaultWorkers bounds concurrent per-feature normalization.
const DefaultWorkers = 8

// Stats counts what happened to the features of one collection.
type Stats struct {
	Input         int `json:"input"`
	Output        int `json:"output"`
	Unchanged     int `json:"unchanged"`
	Corrected     int `json:"corrected"`
	Split         int `json:"split"`
	PassedThrough int `json:"passed_through"`
	Dropped       int `json:"dropped"`
	Warnings      int `json:"warnings"`
}

// Fixed is the number of features that needed a correction.
func (s Stats) Fixed() int {
	return s.Corrected + s.Split
}

func (s *Stats) add(res antimeridian.Result) {
	s.Output += len(res.Features)
	s.Warnings += len(res.Warnings)
	switch res.Status {
	case antimeridian.Unchanged:
		s.Unchanged++
	case antimeridian.Corrected:
		s.Corrected++
	case antimeridian.Split:
		s.Split++
	case antimeridian.PassedThrough:
		s.PassedThrough++
	case antimeridian.Dropped:
		s.Dropped++
	}
}

// Pipeline normalizes whole feature collections.
type Pipeline struct {
	normalizer *antimeridian.Normalizer
	layer      string
	workers    int
}

// NewPipeline returns a pipeline running n over up to workers features at a
// time. layer only labels log lines.
func NewPipeline(n *antimeridian.Normalizer, layer string, workers int) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{normalizer: n, layer: layer, workers: workers}
}

// Run normalizes every feature of fc and returns a new collection. Output
// order follows input order; the parts replacing a feature stay contiguous
// in their part order. A feature that fails is dropped or passed through as
// its Result says and never aborts the run. Only ctx cancellation returns an
// error.
func (p *Pipeline) Run(ctx context.Context, fc *geojson.FeatureCollection) (*geojson.FeatureCollection, Stats, error) {
	results := make([]antimeridian.Result, len(fc.Features))
	errs := make([]error, len(fc.Features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, f := range fc.Features {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i], errs[i] = p.normalizer.Normalize(f)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	out := geojson.NewFeatureCollection()
	out.ExtraMembers = fc.ExtraMembers
	out.Features = make([]*geojson.Feature, 0, len(fc.Features))

	stats := Stats{Input: len(fc.Features)}
	for i, res := range results {
		p.report(fc.Features[i], res, errs[i])
		stats.add(res)
		out.Features = append(out.Features, res.Features...)
	}

	return out, stats, nil
}

// report logs one feature outcome.
func (p *Pipeline) report(f *geojson.Feature, res antimeridian.Result, err error) {
	id := p.normalizer.FeatureID(f)

	for _, w := range res.Warnings {
		if errors.Is(w, antimeridian.ErrUnsupportedGeometry) {
			log.Debug().Err(w).Str("layer", p.layer).Str("id", id).Msg("Passing feature through")
			continue
		}
		log.Warn().
			Err(w).
			Str("layer", p.layer).
			Str("id", id).
			Msg("Feature corrected with warnings")
	}

	switch res.Status {
	case antimeridian.Corrected:
		log.Info().
			Str("layer", p.layer).
			Str("id", id).
			Float64("lon_min", res.LonMin).
			Float64("lon_max", res.LonMax).
			Msg("Fixed dateline-crossing feature")
	case antimeridian.Split:
		log.Info().
			Str("layer", p.layer).
			Str("id", id).
			Float64("lon_min", res.LonMin).
			Float64("lon_max", res.LonMax).
			Int("parts", len(res.Features)).
			Msg("Split dateline-crossing feature")
	case antimeridian.PassedThrough:
		if err != nil {
			log.Warn().Err(err).Str("layer", p.layer).Str("id", id).Msg("Feature left unmodified")
		}
	case antimeridian.Dropped:
		log.Error().Err(err).Str("layer", p.layer).Str("id", id).Msg("Feature dropped")
	}
}
