package antimeridian

import (
	"math"

	"github.com/paulmach/orb"
)

// MinRingPoints is the smallest closed ring: three vertices plus the closing duplicate.
const MinRingPoints = 4

// Seam longitudes.
const (
	SeamEast = 180.0
	SeamWest = -180.0
)

// closeRing appends the first point when the ring is open.
func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// usable reports whether a closed ring has enough points to be emitted.
func usable(r orb.Ring) bool {
	return len(r) >= MinRingPoints
}

// lonRange returns the smallest and largest longitude of the ring.
func lonRange(r orb.Ring) (lo, hi float64, ok bool) {
	if len(r) == 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range r {
		lo = math.Min(lo, p[0])
		hi = math.Max(hi, p[0])
	}
	return lo, hi, true
}

// LonBounds returns the longitude range over every ring, holes included.
func LonBounds(mp orb.MultiPolygon) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, poly := range mp {
		for _, r := range poly {
			rlo, rhi, rok := lonRange(r)
			if !rok {
				continue
			}
			lo = math.Min(lo, rlo)
			hi = math.Max(hi, rhi)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
