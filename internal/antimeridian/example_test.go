package antimeridian_test

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/woozymasta/dateline/internal/antimeridian"
)

func ExampleNormalizer_Normalize() {
	n, err := antimeridian.New(antimeridian.DefaultOptions(antimeridian.SplitInterpolate))
	if err != nil {
		panic(err)
	}

	f := geojson.NewFeature(orb.MultiPolygon{{{{179, 0}, {-179, 0}, {-179, 10}, {179, 10}, {179, 0}}}})
	res, err := n.Normalize(f)
	if err != nil {
		panic(err)
	}

	for _, poly := range res.Features[0].Geometry.(orb.MultiPolygon) {
		fmt.Println(poly[0])
	}
	// Output:
	// [[-180 0] [-179 0] [-179 10] [-180 10] [-180 0]]
	// [[180 10] [179 10] [179 0] [180 0] [180 10]]
}
