package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/dateline/internal/config"
	"github.com/woozymasta/dateline/internal/geo"
	"github.com/woozymasta/dateline/internal/processor"
)

const political = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"id":"fj"},"geometry":{"type":"MultiPolygon","coordinates":[[[[179,0],[-179,0],[-179,10],[179,10],[179,0]]]]}},
 {"type":"Feature","properties":{"id":"de"},"geometry":{"type":"Polygon","coordinates":[[[10,50],[12,50],[12,52],[10,50]]]}}
]}`

func setup(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Parse([]byte(`
source_dir: ` + filepath.Join(dir, "in") + `
output_dir: ` + filepath.Join(dir, "out") + `
policy: shift-unify
layers:
  - name: political
  - name: lakes
`))
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(cfg.SourceDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SourceDir, "political.geojson"), []byte(political), 0644))
	return cfg
}

func TestProcessLayers(t *testing.T) {
	cfg := setup(t)
	m := processor.NewMetrics()

	reports := processor.ProcessLayers(context.Background(), cfg, cfg.Layers, processor.RunOptions{Preview: true}, m)
	require.Len(t, reports, 2)

	pol := reports[0]
	require.NoError(t, pol.Err)
	assert.Equal(t, 1, pol.Stats.Corrected)
	assert.Equal(t, 2, pol.Stats.Output)

	out, err := geo.ReadFile(cfg.OutputPath(cfg.Layers[0]))
	require.NoError(t, err)
	require.Len(t, out.Features, 2)
	mp := out.Features[0].Geometry.(orb.MultiPolygon)
	assert.Equal(t, orb.Point{181, 0}, mp[0][0][1])

	_, err = os.Stat(cfg.PreviewPath(cfg.Layers[0]))
	assert.NoError(t, err)

	assert.ErrorIs(t, reports[1].Err, processor.ErrLayerMissing)

	series, err := testutil.GatherAndCount(m.Registry(), "dateline_features_total")
	require.NoError(t, err)
	assert.Equal(t, 5, series, "one series per outcome of the processed layer")
}

func TestProcessLayerSkipsExistingUnlessForced(t *testing.T) {
	cfg := setup(t)
	layer := cfg.Layers[0]

	first := processor.ProcessLayer(context.Background(), cfg, layer, processor.RunOptions{})
	require.NoError(t, first.Err)
	assert.False(t, first.Skipped)

	second := processor.ProcessLayer(context.Background(), cfg, layer, processor.RunOptions{})
	require.NoError(t, second.Err)
	assert.True(t, second.Skipped)

	forced := processor.ProcessLayer(context.Background(), cfg, layer, processor.RunOptions{Force: true})
	require.NoError(t, forced.Err)
	assert.False(t, forced.Skipped)
}

func TestProcessLayerInvalidSource(t *testing.T) {
	cfg := setup(t)
	require.NoError(t, os.WriteFile(cfg.SourcePath(cfg.Layers[0]), []byte("not json"), 0644))

	rep := processor.ProcessLayer(context.Background(), cfg, cfg.Layers[0], processor.RunOptions{})
	assert.Error(t, rep.Err)
}

func TestMetricsTextfile(t *testing.T) {
	m := processor.NewMetrics()
	m.Observe("political", processor.Stats{Input: 3, Output: 4, Unchanged: 1, Split: 1, Corrected: 1, Warnings: 2}, 0)
	m.Failed("lakes")

	path := filepath.Join(t.TempDir(), "dateline.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `dateline_features_total{layer="political",status="split"} 1`))
	assert.True(t, strings.Contains(text, `dateline_output_features_total{layer="political"} 4`))
	assert.True(t, strings.Contains(text, `dateline_layer_failures_total{layer="lakes"} 1`))
	assert.True(t, strings.Contains(text, "dateline_last_run_timestamp_seconds"))
}
