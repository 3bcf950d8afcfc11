package antimeridian

import "github.com/paulmach/orb"

// Detection selects how a crossing is recognised.
type Detection int

const (
	// EdgeJump flags a ring when two consecutive points are further apart in
	// longitude than the edge-jump threshold. It is exact for well-ordered
	// rings and is the only test compatible with interpolation.
	EdgeJump Detection = iota
	// Span flags a ring whose longitude range exceeds the span threshold.
	// It ignores point order and can misfire on wide rings near the limit.
	Span
	// BoundingBox flags a geometry whose longitudes reach below -margin and
	// above +margin at the same time.
	BoundingBox
)

func (d Detection) String() string {
	switch d {
	case EdgeJump:
		return "edge-jump"
	case Span:
		return "span"
	case BoundingBox:
		return "bbox"
	default:
		return "unknown"
	}
}

// DetectionFor returns the detector a policy uses.
func DetectionFor(p Policy) Detection {
	switch p {
	case ShiftUnify:
		return BoundingBox
	case SplitPartition:
		return Span
	default:
		return EdgeJump
	}
}

// Detector answers whether rings and geometries cross the seam.
type Detector struct {
	Mode       Detection
	Thresholds Thresholds
}

// NewDetector returns a detector for mode with default thresholds.
func NewDetector(mode Detection) Detector {
	return Detector{Mode: mode, Thresholds: DefaultThresholds()}
}

// Ring reports whether a single ring crosses the seam.
func (d Detector) Ring(r orb.Ring) bool {
	switch d.Mode {
	case EdgeJump:
		return CrossesByEdgeJump(r, d.Thresholds.EdgeJump)
	case Span:
		return CrossesBySpan(r, d.Thresholds.Span)
	case BoundingBox:
		lo, hi, ok := lonRange(r)
		return ok && straddles(lo, hi, d.Thresholds.BoundsMargin)
	}
	return false
}

// MultiPolygon reports whether the geometry needs correction. Edge-jump and
// span look at outer rings only; the bounding-box test aggregates every ring.
func (d Detector) MultiPolygon(mp orb.MultiPolygon) bool {
	if d.Mode == BoundingBox {
		lo, hi, ok := LonBounds(mp)
		return ok && straddles(lo, hi, d.Thresholds.BoundsMargin)
	}
	for _, poly := range mp {
		if len(poly) > 0 && d.Ring(poly[0]) {
			return true
		}
	}
	return false
}

// CrossesByEdgeJump reports whether any edge of r jumps more than threshold degrees of longitude.
func CrossesByEdgeJump(r orb.Ring, threshold float64) bool {
	for i := 0; i+1 < len(r); i++ {
		if jumps(r[i], r[i+1], threshold) {
			return true
		}
	}
	return false
}

// CrossesBySpan reports whether the longitude range of r exceeds threshold.
func CrossesBySpan(r orb.Ring, threshold float64) bool {
	lo, hi, ok := lonRange(r)
	return ok && hi-lo > threshold
}

func jumps(a, b orb.Point, threshold float64) bool {
	d := b[0] - a[0]
	if d < 0 {
		d = -d
	}
	return d > threshold
}

func straddles(lo, hi, margin float64) bool {
	return lo < -margin && hi > margin
}
