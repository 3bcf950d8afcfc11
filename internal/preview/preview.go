// Package preview renders feature collections into small WebP images so that
// corrected layers can be checked by eye for shapes wrapping around the globe.
package preview

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/woozymasta/dateline/internal/antimeridian"
	"github.com/woozymasta/dateline/internal/geo"
)

var (
	background = color.RGBA{0x1b, 0x26, 0x33, 0xff}
	seamColor  = color.RGBA{0xe0, 0x40, 0x40, 0xff}

	palette = []color.NRGBA{
		{0x4e, 0x9a, 0x06, 0xc8},
		{0xc4, 0xa0, 0x00, 0xc8},
		{0x34, 0x65, 0xa4, 0xc8},
		{0x75, 0x50, 0x7b, 0xc8},
		{0x06, 0x98, 0x9a, 0xc8},
		{0xce, 0x5c, 0x00, 0xc8},
	}

	world = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
)

// Options sizes the preview.
type Options struct {
	Width  int
	Height int
	// Supersample renders at this multiple of the target size before
	// scaling down, which smooths polygon edges.
	Supersample int
	Quality     float32
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = o.Width / 2
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	if o.Quality <= 0 {
		o.Quality = 85
	}
	return o
}

// Extent is the whole world widened to cover any longitude pushed past the
// seam by a shift correction.
func Extent(fc *geojson.FeatureCollection) orb.Bound {
	b, ok := geo.CollectionBound(fc)
	if !ok {
		return world
	}
	return world.Union(b)
}

// Render draws every Polygon and MultiPolygon of fc in equirectangular
// projection and marks the ±180 meridians. Other geometry types are skipped.
func Render(fc *geojson.FeatureCollection, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	ext := Extent(fc)

	w, h := opts.Width*opts.Supersample, opts.Height*opts.Supersample
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)

	z := vector.NewRasterizer(w, h)
	for i, f := range fc.Features {
		if f == nil {
			continue
		}
		rings := polygonRings(f.Geometry)
		if len(rings) == 0 {
			continue
		}

		z.Reset(w, h)
		for _, r := range rings {
			trace(z, r, ext, w, h)
		}
		z.Draw(canvas, canvas.Bounds(), image.NewUniform(palette[i%len(palette)]), image.Point{})
	}

	for _, lon := range []float64{antimeridian.SeamWest, antimeridian.SeamEast} {
		x, _ := geo.Equirectangular(orb.Point{lon, 0}, ext, w, h)
		col := int(x)
		if col >= w {
			col = w - 1
		}
		line := image.Rect(col-opts.Supersample/2, 0, col+opts.Supersample/2+1, h)
		xdraw.Draw(canvas, line, image.NewUniform(seamColor), image.Point{}, xdraw.Src)
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), xdraw.Over, nil)
	return dst
}

// WriteFile renders fc and encodes it to path as WebP.
func WriteFile(path string, fc *geojson.FeatureCollection, opts Options) error {
	opts = opts.withDefaults()
	img := Render(fc, opts)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := webp.Encode(f, img, &webp.Options{Lossless: false, Quality: opts.Quality}); err != nil {
		return err
	}

	log.Debug().
		Str("path", path).
		Int("width", opts.Width).
		Int("height", opts.Height).
		Msg("Preview written")

	return nil
}

func polygonRings(g orb.Geometry) []orb.Ring {
	switch g := g.(type) {
	case orb.Polygon:
		return g
	case orb.MultiPolygon:
		var rings []orb.Ring
		for _, p := range g {
			rings = append(rings, p...)
		}
		return rings
	}
	return nil
}

func trace(z *vector.Rasterizer, r orb.Ring, ext orb.Bound, w, h int) {
	if len(r) < antimeridian.MinRingPoints {
		return
	}
	for i, p := range r {
		x, y := geo.Equirectangular(p, ext, w, h)
		if i == 0 {
			z.MoveTo(float32(x), float32(y))
			continue
		}
		z.LineTo(float32(x), float32(y))
	}
	z.ClosePath()
}
