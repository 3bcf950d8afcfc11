package antimeridian

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Side is the hemisphere a part of a split ring belongs to.
type Side int

const (
	WestSide Side = iota
	EastSide
)

func (s Side) String() string {
	if s == WestSide {
		return "west"
	}
	return "east"
}

// sideOf places a point by the sign of its longitude; 0 counts as east.
func sideOf(p orb.Point) Side {
	if p[0] < 0 {
		return WestSide
	}
	return EastSide
}

// RingSplit is the result of cutting one ring at the seam. A side is nil
// when it received no usable ring.
type RingSplit struct {
	West, East orb.Ring
	Crossings  int
}

type piece struct {
	side Side
	ring orb.Ring
}

// SplitRing cuts r at every edge that jumps more than threshold degrees.
// Thresholds below 180 are rejected with ErrInvalidThreshold.
//
// Every crossing closes the current piece on the seam and opens the next one
// at the opposite seam longitude. A piece belongs to the side of the seam it
// closes on, so a ring that also crosses 0° is still labelled correctly. The
// trailing piece wraps around onto the first one. When more than one piece
// lands on a side they are joined along the seam and ErrComplexCrossing is
// returned together with the result. A ring without crossings is returned on
// the side of its first point.
func SplitRing(r orb.Ring, threshold float64) (RingSplit, error) {
	if threshold < DefaultEdgeJump {
		return RingSplit{}, fmt.Errorf("%w: edge jump %g is below %g", ErrInvalidThreshold, threshold, DefaultEdgeJump)
	}
	if len(r) == 0 {
		return RingSplit{}, nil
	}

	var pieces []piece
	current := make(orb.Ring, 0, len(r))

	for i := 0; i+1 < len(r); i++ {
		a, b := r[i], r[i+1]
		current = append(current, a)
		if !jumps(a, b, threshold) {
			continue
		}

		c, err := Interpolate(a, b)
		if err != nil {
			return RingSplit{}, err
		}

		current = append(current, c.Exit)
		pieces = append(pieces, piece{side: sideOf(c.Exit), ring: current})
		current = orb.Ring{c.Entry}
	}
	current = append(current, r[len(r)-1])

	crossings := len(pieces)
	if crossings%2 != 0 {
		return RingSplit{Crossings: crossings}, fmt.Errorf("%w: %d crossings", ErrUnpairedCrossing, crossings)
	}

	if crossings == 0 {
		pieces = []piece{{side: sideOf(r[0]), ring: current}}
	} else {
		pieces[0].ring = join(current, pieces[0].ring)
	}

	var sides [2][]orb.Ring
	for _, p := range pieces {
		sides[p.side] = append(sides[p.side], p.ring)
	}

	out := RingSplit{
		West:      assemble(sides[WestSide]),
		East:      assemble(sides[EastSide]),
		Crossings: crossings,
	}
	if crossings > 2 {
		return out, fmt.Errorf("%w: %d crossings", ErrComplexCrossing, crossings)
	}
	return out, nil
}

// join appends b to a, skipping b's first point when it repeats a's last.
func join(a, b orb.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(a)+len(b))
	out = append(out, a...)
	if len(out) > 0 && len(b) > 0 && out[len(out)-1] == b[0] {
		b = b[1:]
	}
	return append(out, b...)
}

// assemble joins the parts of one side into a closed ring, or nil if the
// result is degenerate.
func assemble(parts []orb.Ring) orb.Ring {
	var r orb.Ring
	for _, p := range parts {
		r = join(r, p)
	}
	r = closeRing(r)
	if !usable(r) {
		return nil
	}
	return r
}
