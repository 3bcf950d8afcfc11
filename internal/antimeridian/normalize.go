package antimeridian

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Status summarises what Normalize did with a feature.
type Status int

const (
	// Unchanged means no crossing was detected, or the feature is a Polygon
	// and Polygon correction is off; the input is returned as is.
	Unchanged Status = iota
	// Corrected means the feature was replaced by one rewritten feature.
	Corrected
	// Split means the feature was replaced by several part features.
	Split
	// PassedThrough means the feature was returned untouched without being
	// examined or after a correction was refused.
	PassedThrough
	// Dropped means nothing usable remained and no feature is returned.
	Dropped
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Corrected:
		return "corrected"
	case Split:
		return "split"
	case PassedThrough:
		return "passed_through"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Result holds the replacement features for one input feature.
type Result struct {
	Features []*geojson.Feature
	Status   Status
	// Warnings are non-fatal notices: dropped holes, unsupported geometry,
	// rings removed because of degenerate edges.
	Warnings []error

	// LonMin and LonMax are the input longitude bounds when a crossing was
	// detected.
	LonMin, LonMax float64
}

// Normalizer applies one correction policy to features.
type Normalizer struct {
	opts      Options
	detector  Detector
	corrector Corrector
}

// New returns a Normalizer for opts. Zero thresholds and property names take
// their defaults.
func New(opts Options) (*Normalizer, error) {
	opts = opts.withDefaults()
	c, err := NewCorrector(opts)
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		opts:      opts,
		detector:  Detector{Mode: DetectionFor(opts.Policy), Thresholds: opts.Thresholds},
		corrector: c,
	}, nil
}

// Normalize corrects one feature under opts. It is a shorthand for New
// followed by Normalizer.Normalize.
func Normalize(f *geojson.Feature, opts Options) (Result, error) {
	n, err := New(opts)
	if err != nil {
		return Result{}, err
	}
	return n.Normalize(f)
}

// Options returns the effective options.
func (n *Normalizer) Options() Options { return n.opts }

// Normalize returns the features replacing f.
//
// Features without a crossing and Polygon features (unless Options.Polygons
// is set) come back unchanged. Other geometry types are passed through with
// an ErrUnsupportedGeometry warning. Every output feature carries a
// shallow copy of the input properties; SplitPartition adds the part index
// when more than one part results.
//
// The returned error is non-nil only when the feature could not be
// corrected: it is then either passed through untouched (holes rejected) or
// dropped (no usable ring left), as reported by Result.Status.
func (n *Normalizer) Normalize(f *geojson.Feature) (Result, error) {
	if f == nil {
		return Result{Status: Dropped}, nil
	}

	if _, ok := f.Geometry.(orb.Polygon); ok && !n.opts.Polygons {
		return Result{Features: []*geojson.Feature{f}, Status: Unchanged}, nil
	}

	mp, isPolygon, ok := multiPolygonOf(f.Geometry)
	if !ok {
		return Result{
			Features: []*geojson.Feature{f},
			Status:   PassedThrough,
			Warnings: []error{fmt.Errorf("%w: %s", ErrUnsupportedGeometry, geometryType(f.Geometry))},
		}, nil
	}

	if !n.detector.MultiPolygon(mp) {
		return Result{Features: []*geojson.Feature{f}, Status: Unchanged}, nil
	}

	res := Result{}
	res.LonMin, res.LonMax, _ = LonBounds(mp)

	c, err := n.corrector.Correct(mp)
	if err != nil {
		res.Features = []*geojson.Feature{f}
		res.Status = PassedThrough
		return res, err
	}
	res.Warnings = c.Warnings

	if len(c.Parts) == 0 {
		res.Status = Dropped
		return res, fmt.Errorf("feature %s: %w: no usable ring remains", n.FeatureID(f), ErrDegenerateRing)
	}

	res.Features = make([]*geojson.Feature, 0, len(c.Parts))
	for i, part := range c.Parts {
		nf := derive(f, geometryLike(part, isPolygon))
		if len(c.Parts) > 1 {
			nf.Properties[n.opts.PartProperty] = i + 1
		}
		res.Features = append(res.Features, nf)
	}

	res.Status = Corrected
	if len(res.Features) > 1 {
		res.Status = Split
	}
	return res, nil
}

// FeatureID returns the identifying property of f for diagnostics, falling
// back to the feature id and then to "unnamed".
func (n *Normalizer) FeatureID(f *geojson.Feature) string {
	if f == nil {
		return "unnamed"
	}
	if v, ok := f.Properties[n.opts.IDProperty]; ok && v != nil {
		return fmt.Sprint(v)
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return "unnamed"
}

func multiPolygonOf(g orb.Geometry) (mp orb.MultiPolygon, isPolygon, ok bool) {
	switch g := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, true, true
	case orb.MultiPolygon:
		return g, false, true
	}
	return nil, false, false
}

// geometryLike keeps a Polygon input a Polygon when a single polygon results.
func geometryLike(mp orb.MultiPolygon, isPolygon bool) orb.Geometry {
	if isPolygon && len(mp) == 1 {
		return mp[0]
	}
	return mp
}

func geometryType(g orb.Geometry) string {
	if g == nil {
		return "null"
	}
	return g.GeoJSONType()
}

// derive builds a feature with geometry g and a shallow copy of f's
// properties and foreign members. The bounding box is not carried over.
func derive(f *geojson.Feature, g orb.Geometry) *geojson.Feature {
	nf := geojson.NewFeature(g)
	nf.ID = f.ID
	for k, v := range f.Properties {
		nf.Properties[k] = v
	}
	if len(f.ExtraMembers) > 0 {
		nf.ExtraMembers = make(geojson.Properties, len(f.ExtraMembers))
		for k, v := range f.ExtraMembers {
			nf.ExtraMembers[k] = v
		}
	}
	return nf
}
