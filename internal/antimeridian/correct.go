package antimeridian

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Correction is the output of a Corrector. Each part becomes the geometry of
// one output feature.
type Correction struct {
	Parts    []orb.MultiPolygon
	Warnings []error
}

// Corrector rewrites a geometry its policy's detector has flagged. The set of
// implementations is closed: one per Policy.
type Corrector interface {
	Policy() Policy
	Correct(mp orb.MultiPolygon) (Correction, error)
}

// NewCorrector returns the Corrector for opts.Policy.
func NewCorrector(opts Options) (Corrector, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch opts.Policy {
	case ShiftUnify:
		return unifier{}, nil
	case SplitInterpolate:
		return interpolatingSplitter{threshold: opts.Thresholds.EdgeJump, holes: opts.Holes}, nil
	default:
		return partitioner{span: opts.Thresholds.Span, margin: opts.Thresholds.BoundsMargin, holes: opts.Holes}, nil
	}
}

type unifier struct{}

func (unifier) Policy() Policy { return ShiftUnify }

func (unifier) Correct(mp orb.MultiPolygon) (Correction, error) {
	return Correction{Parts: []orb.MultiPolygon{UnifyShift(mp)}}, nil
}

type interpolatingSplitter struct {
	threshold float64
	holes     HolePolicy
}

func (interpolatingSplitter) Policy() Policy { return SplitInterpolate }

// Correct splits every crossing outer ring into a west and an east polygon,
// in that order, and keeps non-crossing polygons untouched. A polygon whose
// crossing edge cannot be interpolated is dropped with a warning; one that
// crosses an odd number of times is kept as it was.
func (s interpolatingSplitter) Correct(mp orb.MultiPolygon) (Correction, error) {
	var c Correction
	out := make(orb.MultiPolygon, 0, len(mp)+1)

	for i, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		if !CrossesByEdgeJump(poly[0], s.threshold) {
			out = append(out, poly)
			continue
		}
		if err := checkHoles(i, poly, s.holes, &c); err != nil {
			return Correction{}, err
		}

		split, err := SplitRing(poly[0], s.threshold)
		switch {
		case err == nil:
		case errors.Is(err, ErrComplexCrossing):
			c.Warnings = append(c.Warnings, fmt.Errorf("polygon %d: %w", i, err))
		case errors.Is(err, ErrUnpairedCrossing):
			c.Warnings = append(c.Warnings, fmt.Errorf("polygon %d kept unsplit: %w", i, err))
			out = append(out, poly)
			continue
		default:
			c.Warnings = append(c.Warnings, fmt.Errorf("polygon %d dropped: %w", i, err))
			continue
		}

		if split.West != nil {
			out = append(out, orb.Polygon{split.West})
		}
		if split.East != nil {
			out = append(out, orb.Polygon{split.East})
		}
	}

	if len(out) > 0 {
		c.Parts = []orb.MultiPolygon{out}
	}
	return c, nil
}

type partitioner struct {
	span   float64
	margin float64
	holes  HolePolicy
}

func (partitioner) Policy() Policy { return SplitPartition }

// Correct replaces each outer ring wider than the span threshold by its east
// and west point groups and keeps other polygons as they are. Every resulting
// polygon is a separate part.
func (p partitioner) Correct(mp orb.MultiPolygon) (Correction, error) {
	var c Correction

	for i, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		if !CrossesBySpan(poly[0], p.span) {
			c.Parts = append(c.Parts, orb.MultiPolygon{poly})
			continue
		}
		if err := checkHoles(i, poly, p.holes, &c); err != nil {
			return Correction{}, err
		}

		east, west := PartitionRing(poly[0], p.margin)
		if east != nil {
			c.Parts = append(c.Parts, orb.MultiPolygon{{east}})
		}
		if west != nil {
			c.Parts = append(c.Parts, orb.MultiPolygon{{west}})
		}
	}

	return c, nil
}

// checkHoles applies the hole policy to a polygon about to be split.
func checkHoles(i int, poly orb.Polygon, holes HolePolicy, c *Correction) error {
	if len(poly) < 2 {
		return nil
	}
	if holes == RejectHoles {
		return fmt.Errorf("polygon %d: %w (%d holes)", i, ErrHolesRejected, len(poly)-1)
	}
	c.Warnings = append(c.Warnings, fmt.Errorf("polygon %d: %w (%d holes)", i, ErrHolesDropped, len(poly)-1))
	return nil
}
