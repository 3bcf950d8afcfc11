package antimeridian

import (
	"math"

	"github.com/paulmach/orb"
)

// Crossing is where an edge meets the seam.
type Crossing struct {
	// Lat is the interpolated latitude at the seam.
	Lat float64
	// Exit closes the part being walked; it lies on the seam at the side the
	// edge leaves from.
	Exit orb.Point
	// Entry starts the next part on the opposite seam longitude.
	Entry orb.Point
}

// Interpolate computes the seam crossing of the edge a→b, which must already
// be known to cross. The edge is treated as a straight line in lon/lat space.
//
// Travel direction follows the sign of a's longitude: from a positive
// longitude the far endpoint is unwrapped by +360 and the exit is at +180,
// otherwise it is unwrapped by -360 and the exit is at -180.
func Interpolate(a, b orb.Point) (Crossing, error) {
	seam, unwrapped := SeamWest, b[0]-360
	if a[0] > 0 {
		seam, unwrapped = SeamEast, b[0]+360
	}

	denom := unwrapped - a[0]
	if denom == 0 {
		return Crossing{}, &DegenerateEdgeError{From: a, To: b}
	}

	ratio := (seam - a[0]) / denom
	lat := a[1] + ratio*(b[1]-a[1])
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Crossing{}, &DegenerateEdgeError{From: a, To: b}
	}

	return Crossing{
		Lat:   lat,
		Exit:  orb.Point{seam, lat},
		Entry: orb.Point{-seam, lat},
	}, nil
}
