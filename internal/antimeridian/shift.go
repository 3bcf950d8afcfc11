package antimeridian

import "github.com/paulmach/orb"

// UnifyRing returns a copy of r with every negative longitude moved by +360.
func UnifyRing(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		if p[0] < 0 {
			p[0] += 360
		}
		out[i] = p
	}
	return out
}

// UnifyShift applies UnifyRing to every ring of mp, holes included. The
// result spans roughly 170..190 and is only meaningful to consumers that
// accept longitudes outside [-180, 180].
func UnifyShift(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		np := make(orb.Polygon, len(poly))
		for j, r := range poly {
			np[j] = UnifyRing(r)
		}
		out[i] = np
	}
	return out
}

// PartitionRing groups the points of r by longitude sign. Points east of 0
// form the east ring, the rest the west ring. Within the east ring points
// beyond +margin move by -360, within the west ring points beyond -margin
// move by +360. Each group keeps the original point order and is closed; a
// group with fewer than MinRingPoints points after closing comes back nil.
//
// Membership is per point, not per edge: when the original ring does not
// visit each side contiguously the output edge order will not trace a
// simple boundary.
func PartitionRing(r orb.Ring, margin float64) (east, west orb.Ring) {
	for _, p := range r {
		if p[0] > 0 {
			if p[0] > margin {
				p[0] -= 360
			}
			east = append(east, p)
			continue
		}
		if p[0] < -margin {
			p[0] += 360
		}
		west = append(west, p)
	}

	east, west = closeRing(east), closeRing(west)
	if !usable(east) {
		east = nil
	}
	if !usable(west) {
		west = nil
	}
	return east, west
}
