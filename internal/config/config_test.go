package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/dateline/internal/antimeridian"
	"github.com/woozymasta/dateline/internal/config"
)

const sample = `
source_dir: in
output_dir: out
policy: shift-unify
compact: true
thresholds:
  bbox_margin: 160
layers:
  - name: political
    policy: split-partition
    thresholds:
      span: 340
  - name: rivers
    file: rivers_v2.geojson
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, antimeridian.ShiftUnify, cfg.Policy)
	assert.Equal(t, antimeridian.DropHoles, cfg.Holes)
	assert.Equal(t, "id", cfg.IDProperty)
	assert.Equal(t, "_part", cfg.PartProperty)
	assert.Equal(t, 160.0, cfg.Thresholds.BoundsMargin)
	assert.Equal(t, 180.0, cfg.Thresholds.EdgeJump)
	require.Len(t, cfg.Layers, 2)

	political := cfg.Options(cfg.Layers[0])
	assert.Equal(t, antimeridian.SplitPartition, political.Policy)
	assert.Equal(t, 340.0, political.Thresholds.Span)
	assert.Equal(t, 160.0, political.Thresholds.BoundsMargin)

	rivers := cfg.Options(cfg.Layers[1])
	assert.Equal(t, antimeridian.ShiftUnify, rivers.Policy)
	assert.Equal(t, 350.0, rivers.Thresholds.Span)

	assert.Equal(t, filepath.Join("in", "rivers_v2.geojson"), cfg.SourcePath(cfg.Layers[1]))
	assert.Equal(t, filepath.Join("out", "rivers.geojson"), cfg.OutputPath(cfg.Layers[1]))
	assert.Equal(t, filepath.Join("out", "rivers.webp"), cfg.PreviewPath(cfg.Layers[1]))
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, antimeridian.SplitInterpolate, cfg.Policy)
	assert.Equal(t, "geojson_sanitized", cfg.SourceDir)
	assert.Equal(t, "geojson_fixed", cfg.OutputDir)
	require.Len(t, cfg.Layers, len(config.DefaultLayers))
	assert.Equal(t, "political", cfg.Layers[0].Name)
	assert.Equal(t, "background", cfg.Layers[6].Name)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"UnknownPolicy":      "policy: wrap",
		"UnknownLayerPolicy": "layers: [{name: a, policy: wrap}]",
		"UnknownHoles":       "holes: keep",
		"DuplicateLayer":     "layers: [{name: a}, {name: a}]",
		"UnnamedLayer":       "layers: [{file: a.geojson}]",
		"NotYAML":            "layers: [",
		"LowEdgeJump":        "thresholds: {edge_jump: 90}",
		"LowLayerEdgeJump":   "layers: [{name: a, thresholds: {edge_jump: 120}}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSelect(t *testing.T) {
	cfg := config.Default()

	all, missing := cfg.Select(nil)
	assert.Len(t, all, len(config.DefaultLayers))
	assert.Empty(t, missing)

	got, missing := cfg.Select([]string{"lakes", "oceans", "lakes", "political"})
	require.Len(t, got, 2)
	assert.Equal(t, "lakes", got[0].Name)
	assert.Equal(t, "political", got[1].Name)
	assert.Equal(t, []string{"oceans"}, missing)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "in", cfg.SourceDir)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParsePolygons(t *testing.T) {
	cfg, err := config.Parse([]byte("polygons: true\nlayers: [{name: a}]"))
	require.NoError(t, err)
	assert.True(t, cfg.Options(cfg.Layers[0]).Polygons)

	cfg = config.Default()
	assert.False(t, cfg.Options(cfg.Layers[0]).Polygons)
}

func TestLoadExample(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, antimeridian.SplitInterpolate, cfg.Policy)
	assert.Len(t, cfg.Layers, len(config.DefaultLayers))

	icecaps, ok := cfg.Layer("icecaps")
	require.True(t, ok)
	assert.Equal(t, antimeridian.ShiftUnify, cfg.Options(icecaps).Policy)

	rivers, ok := cfg.Layer("rivers")
	require.True(t, ok)
	assert.Equal(t, antimeridian.SplitInterpolate, cfg.Options(rivers).Policy)
}
