// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/dateline/internal/antimeridian"
)

// DefaultLayers are processed when the configuration lists none.
var DefaultLayers = []string{"political", "climate", "altitudes", "rivers", "lakes", "icecaps", "background"}

// Config represents the root configuration file structure.
type Config struct {
	Thresholds   Thresholds              `yaml:"thresholds"`
	SourceDir    string                  `yaml:"source_dir"`
	OutputDir    string                  `yaml:"output_dir"`
	Policy       antimeridian.Policy     `yaml:"policy"`
	Holes        antimeridian.HolePolicy `yaml:"holes,omitempty"`
	IDProperty   string                  `yaml:"id_property,omitempty"`
	PartProperty string                  `yaml:"part_property,omitempty"`
	Layers       []Layer                 `yaml:"layers"`
	Precision    int                     `yaml:"precision,omitempty"`
	Compact      bool                    `yaml:"compact"`
	Preview      bool                    `yaml:"preview,omitempty"`
	// correct Polygon features too, not only MultiPolygons
	Polygons     bool                    `yaml:"polygons,omitempty"`
}

// Thresholds are the detector limits in degrees.
type Thresholds struct {
	EdgeJump     float64 `yaml:"edge_jump,omitempty"`
	Span         float64 `yaml:"span,omitempty"`
	BoundsMargin float64 `yaml:"bbox_margin,omitempty"`
}

// Layer represents a single named GeoJSON layer.
type Layer struct {
	// overrides the global policy when set
	Policy     antimeridian.Policy `yaml:"policy,omitempty" json:"policy,omitempty"`
	Thresholds *Thresholds         `yaml:"thresholds,omitempty" json:"-"`
	Name       string              `yaml:"name" json:"name"`
	// file name inside source_dir, defaults to <name>.geojson
	File string `yaml:"file,omitempty" json:"-"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Compact: true}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = "geojson_sanitized"
	}
	if c.OutputDir == "" {
		c.OutputDir = "geojson_fixed"
	}
	if c.Policy == "" {
		c.Policy = antimeridian.SplitInterpolate
	}
	if c.Holes == "" {
		c.Holes = antimeridian.DropHoles
	}
	if c.IDProperty == "" {
		c.IDProperty = antimeridian.DefaultIDProperty
	}
	if c.PartProperty == "" {
		c.PartProperty = antimeridian.DefaultPartProperty
	}
	if c.Thresholds.EdgeJump <= 0 {
		c.Thresholds.EdgeJump = antimeridian.DefaultEdgeJump
	}
	if c.Thresholds.Span <= 0 {
		c.Thresholds.Span = antimeridian.DefaultSpan
	}
	if c.Thresholds.BoundsMargin <= 0 {
		c.Thresholds.BoundsMargin = antimeridian.DefaultBoundsMargin
	}
	if len(c.Layers) == 0 {
		c.Layers = lo.Map(DefaultLayers, func(name string, _ int) Layer {
			return Layer{Name: name}
		})
	}
}

// Validate checks policies, thresholds and layer names.
func (c *Config) Validate() error {
	if _, err := antimeridian.ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	switch c.Holes {
	case antimeridian.DropHoles, antimeridian.RejectHoles:
	default:
		return fmt.Errorf("config: unknown holes policy %q", c.Holes)
	}

	seen := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		if l.Name == "" {
			return fmt.Errorf("config: layer %d has no name", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("config: duplicate layer %q", l.Name)
		}
		seen[l.Name] = true

		if err := c.Options(l).Validate(); err != nil {
			return fmt.Errorf("config: layer %q: %w", l.Name, err)
		}
	}

	return nil
}

// Options returns the normalizer options effective for layer l.
func (c *Config) Options(l Layer) antimeridian.Options {
	policy := c.Policy
	if l.Policy != "" {
		policy = l.Policy
	}

	t := c.Thresholds
	if l.Thresholds != nil {
		t = t.merge(*l.Thresholds)
	}

	return antimeridian.Options{
		Policy: policy,
		Thresholds: antimeridian.Thresholds{
			EdgeJump:     t.EdgeJump,
			Span:         t.Span,
			BoundsMargin: t.BoundsMargin,
		},
		Holes:        c.Holes,
		IDProperty:   c.IDProperty,
		PartProperty: c.PartProperty,
		Polygons:     c.Polygons,
	}
}

// SourcePath is the input file of layer l.
func (c *Config) SourcePath(l Layer) string {
	return filepath.Join(c.SourceDir, l.fileName())
}

// OutputPath is the corrected GeoJSON file of layer l.
func (c *Config) OutputPath(l Layer) string {
	return filepath.Join(c.OutputDir, l.Name+".geojson")
}

// PreviewPath is the WebP preview of layer l.
func (c *Config) PreviewPath(l Layer) string {
	return filepath.Join(c.OutputDir, l.Name+".webp")
}

// Layer returns the configured layer called name.
func (c *Config) Layer(name string) (Layer, bool) {
	return lo.Find(c.Layers, func(l Layer) bool { return l.Name == name })
}

// Select returns the layers named in limit, in limit order and without
// duplicates, plus the names that are not configured. An empty limit selects
// every layer.
func (c *Config) Select(limit []string) (selected []Layer, missing []string) {
	if len(limit) == 0 {
		return c.Layers, nil
	}

	for _, name := range lo.Uniq(limit) {
		if l, ok := c.Layer(name); ok {
			selected = append(selected, l)
		} else {
			missing = append(missing, name)
		}
	}
	return selected, missing
}

func (l Layer) fileName() string {
	if l.File != "" {
		return l.File
	}
	return l.Name + ".geojson"
}

func (t Thresholds) merge(o Thresholds) Thresholds {
	if o.EdgeJump > 0 {
		t.EdgeJump = o.EdgeJump
	}
	if o.Span > 0 {
		t.Span = o.Span
	}
	if o.BoundsMargin > 0 {
		t.BoundsMargin = o.BoundsMargin
	}
	return t
}
