package processor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/dateline/internal/antimeridian"
	"github.com/woozymasta/dateline/internal/processor"
)

var (
	seamSquare = orb.Ring{{179, 0}, {-179, 0}, {-179, 10}, {179, 10}, {179, 0}}
	inland     = orb.Ring{{10, 10}, {20, 10}, {20, 20}, {10, 20}, {10, 10}}
	wideEast   = orb.Ring{
		{175, 10}, {178, 12}, {179, 15}, {177, 18}, {176, 20},
		{-179, 20}, {-178, 15}, {-179, 10}, {175, 10},
	}
	degenerate = orb.Ring{{180, 0}, {-180, 5}, {-179, 5}, {179, 0}, {180, 0}}
)

func named(id string, g orb.Geometry) *geojson.Feature {
	f := geojson.NewFeature(g)
	f.Properties["id"] = id
	return f
}

func run(t *testing.T, p antimeridian.Policy, fc *geojson.FeatureCollection, workers int) (*geojson.FeatureCollection, processor.Stats) {
	t.Helper()
	n, err := antimeridian.New(antimeridian.DefaultOptions(p))
	require.NoError(t, err)

	out, stats, err := processor.NewPipeline(n, "test", workers).Run(context.Background(), fc)
	require.NoError(t, err)
	return out, stats
}

func ids(fc *geojson.FeatureCollection) []string {
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		id := fmt.Sprint(f.Properties["id"])
		if part, ok := f.Properties["_part"]; ok {
			id = fmt.Sprintf("%s#%v", id, part)
		}
		out = append(out, id)
	}
	return out
}

func TestRunPartitionKeepsOrderAndContiguousParts(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(named("a", orb.MultiPolygon{{inland}}))
	fc.Append(named("b", orb.MultiPolygon{{wideEast}}))
	fc.Append(named("c", orb.Point{1, 2}))
	fc.Append(named("d", orb.MultiPolygon{{wideEast}, {inland}}))
	fc.Append(named("e", orb.Polygon{wideEast}))

	for _, workers := range []int{1, 3, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			out, stats := run(t, antimeridian.SplitPartition, fc, workers)

			assert.Equal(t, []string{"a", "b#1", "b#2", "c", "d#1", "d#2", "d#3", "e"}, ids(out))
			assert.Equal(t, processor.Stats{
				Input:         5,
				Output:        8,
				Unchanged:     2,
				Split:         2,
				PassedThrough: 1,
				Warnings:      1,
			}, stats)
			assert.Equal(t, 2, stats.Fixed())
			assert.Equal(t, orb.Polygon{wideEast}, out.Features[7].Geometry, "polygons are not corrected")
		})
	}
}

func TestRunInterpolateDropsDegenerateFeature(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(named("broken", orb.MultiPolygon{{degenerate}}))
	fc.Append(named("fiji", orb.MultiPolygon{{seamSquare}}))

	out, stats := run(t, antimeridian.SplitInterpolate, fc, 2)

	assert.Equal(t, []string{"fiji"}, ids(out))
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, stats.Corrected)
	assert.Equal(t, 1, stats.Warnings)
	assert.Len(t, out.Features[0].Geometry.(orb.MultiPolygon), 2)
}

func TestRunKeepsCollectionMembers(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"name": "political"}
	fc.Append(named("a", orb.Polygon{inland}))

	out, _ := run(t, antimeridian.ShiftUnify, fc, 1)
	assert.Equal(t, "political", out.ExtraMembers["name"])
	assert.Same(t, fc.Features[0], out.Features[0])
}

func TestRunCancelled(t *testing.T) {
	n, err := antimeridian.New(antimeridian.DefaultOptions(antimeridian.ShiftUnify))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fc := geojson.NewFeatureCollection()
	fc.Append(named("a", orb.Polygon{inland}))

	_, _, err = processor.NewPipeline(n, "test", 1).Run(ctx, fc)
	assert.ErrorIs(t, err, context.Canceled)
}
