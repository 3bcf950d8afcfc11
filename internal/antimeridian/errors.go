package antimeridian

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrDegenerateEdge indicates a crossing edge whose unwrapped endpoints share a longitude.
	ErrDegenerateEdge = errors.New("antimeridian: degenerate crossing edge")
	// ErrDegenerateRing indicates a corrected part with too few points to form a ring.
	ErrDegenerateRing = errors.New("antimeridian: ring has fewer than 4 points")
	// ErrUnsupportedGeometry indicates a geometry that is neither Polygon nor MultiPolygon.
	ErrUnsupportedGeometry = errors.New("antimeridian: unsupported geometry type")
	// ErrHolesDropped reports interior rings lost while splitting an outer ring.
	ErrHolesDropped = errors.New("antimeridian: holes dropped from split polygon")
	// ErrHolesRejected indicates a split refused because the polygon has holes.
	ErrHolesRejected = errors.New("antimeridian: refusing to split polygon with holes")
	// ErrComplexCrossing reports a ring crossing the seam more than twice.
	ErrComplexCrossing = errors.New("antimeridian: ring crosses the seam more than twice")
	// ErrUnknownPolicy indicates an unrecognised policy name.
	ErrUnknownPolicy = errors.New("antimeridian: unknown policy")
	// ErrInvalidThreshold indicates a detector threshold outside its usable range.
	ErrInvalidThreshold = errors.New("antimeridian: invalid threshold")
	// ErrUnpairedCrossing indicates a ring crossing the seam an odd number of
	// times, typically one that encloses a pole.
	ErrUnpairedCrossing = errors.New("antimeridian: ring crosses the seam an odd number of times")
)

// DegenerateEdgeError describes the edge on which interpolation failed.
type DegenerateEdgeError struct {
	From, To orb.Point
}

func (e *DegenerateEdgeError) Error() string {
	return fmt.Sprintf("antimeridian: degenerate crossing edge %v -> %v", e.From, e.To)
}

// Is reports ErrDegenerateEdge as a match so callers can test with errors.Is.
func (e *DegenerateEdgeError) Is(target error) bool {
	return target == ErrDegenerateEdge
}
