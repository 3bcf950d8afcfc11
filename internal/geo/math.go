package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// NormalizeLongitude wraps lon into [-180, 180].
func NormalizeLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// CollectionBound returns the bounds of every geometry in fc. The second
// value is false when no feature has a geometry.
func CollectionBound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var (
		b  orb.Bound
		ok bool
	)
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if !ok {
			b, ok = fb, true
			continue
		}
		b = b.Union(fb)
	}
	return b, ok
}

// Equirectangular maps a lon/lat point into pixel space of a width×height
// canvas covering the extent b. The y axis grows southwards.
func Equirectangular(p orb.Point, b orb.Bound, width, height int) (x, y float64) {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	if dx == 0 || dy == 0 {
		return 0, 0
	}
	x = (p[0] - b.Min[0]) / dx * float64(width)
	y = (b.Max[1] - p[1]) / dy * float64(height)
	return x, y
}
