package antimeridian

import "fmt"

// Policy selects the correction strategy applied to seam-crossing geometries.
type Policy string

const (
	// ShiftUnify shifts negative longitudes by +360 without splitting.
	ShiftUnify Policy = "shift-unify"
	// SplitInterpolate cuts rings at interpolated seam points.
	SplitInterpolate Policy = "split-interpolate"
	// SplitPartition partitions ring points by longitude sign into separate features.
	SplitPartition Policy = "split-partition"
)

// Policies lists every supported policy in a stable order.
var Policies = []Policy{ShiftUnify, SplitInterpolate, SplitPartition}

// ParsePolicy returns the Policy named by s.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// HolePolicy decides what happens to interior rings of a polygon whose outer
// ring is split at the seam.
type HolePolicy string

const (
	// DropHoles discards the holes and reports ErrHolesDropped.
	DropHoles HolePolicy = "drop"
	// RejectHoles leaves the feature untouched and reports ErrHolesRejected.
	RejectHoles HolePolicy = "reject"
)

const (
	DefaultEdgeJump     = 180.0
	DefaultSpan         = 350.0
	DefaultBoundsMargin = 170.0

	DefaultIDProperty   = "id"
	DefaultPartProperty = "_part"
)

// Thresholds holds the degree limits used by the detectors.
type Thresholds struct {
	// EdgeJump is the longitude difference between consecutive points above
	// which an edge is treated as crossing the seam.
	EdgeJump float64
	// Span is the longitude range of a ring above which it is treated as
	// wrapping the globe.
	Span float64
	// BoundsMargin marks the bounding-box test: a geometry straddles the seam
	// when its minimum is below -BoundsMargin and its maximum above it.
	BoundsMargin float64
}

// Validate rejects an edge-jump threshold below 180 degrees. Interpolation
// unwraps the far endpoint by a full turn, which is only correct for edges
// that really wrap around the seam.
func (t Thresholds) Validate() error {
	if t.EdgeJump < DefaultEdgeJump {
		return fmt.Errorf("%w: edge jump %g is below %g", ErrInvalidThreshold, t.EdgeJump, DefaultEdgeJump)
	}
	return nil
}

// DefaultThresholds returns 180/350/170.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EdgeJump:     DefaultEdgeJump,
		Span:         DefaultSpan,
		BoundsMargin: DefaultBoundsMargin,
	}
}

// Options configures a Normalizer.
type Options struct {
	Policy     Policy
	Thresholds Thresholds
	Holes      HolePolicy

	// IDProperty names the property used to identify features in diagnostics.
	IDProperty string
	// PartProperty names the 1-based part index added by SplitPartition.
	PartProperty string

	// Polygons enables correction of Polygon geometries. When false only
	// MultiPolygon features are examined and Polygon features come back
	// unchanged.
	Polygons bool
}

// DefaultOptions returns options for the given policy with default thresholds.
func DefaultOptions(p Policy) Options {
	return Options{
		Policy:       p,
		Thresholds:   DefaultThresholds(),
		Holes:        DropHoles,
		IDProperty:   DefaultIDProperty,
		PartProperty: DefaultPartProperty,
	}
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	if o.Thresholds.EdgeJump <= 0 {
		o.Thresholds.EdgeJump = DefaultEdgeJump
	}
	if o.Thresholds.Span <= 0 {
		o.Thresholds.Span = DefaultSpan
	}
	if o.Thresholds.BoundsMargin <= 0 {
		o.Thresholds.BoundsMargin = DefaultBoundsMargin
	}
	if o.Holes == "" {
		o.Holes = DropHoles
	}
	if o.IDProperty == "" {
		o.IDProperty = DefaultIDProperty
	}
	if o.PartProperty == "" {
		o.PartProperty = DefaultPartProperty
	}
	return o
}

// Validate checks the policy, hole policy and thresholds.
func (o Options) Validate() error {
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if err := o.Thresholds.Validate(); err != nil {
		return err
	}
	switch o.Holes {
	case DropHoles, RejectHoles:
	default:
		return fmt.Errorf("antimeridian: unknown hole policy %q", o.Holes)
	}
	return nil
}
