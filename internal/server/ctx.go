package server

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/dateline/internal/config"
)

// LayerInfo describes a published layer.
type LayerInfo struct {
	Modified   *time.Time `json:"modified,omitempty"`
	Name       string     `json:"name"`
	Policy     string     `json:"policy"`
	Size       int64      `json:"size,omitempty"`
	HasGeoJSON bool       `json:"has_geojson"`
	HasPreview bool       `json:"has_preview"`
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config *config.Config
	layers map[string]config.Layer
}

// NewServerContext indexes the configured layers by name. Files are looked
// up on every request so that a batch run can refresh them while serving.
func NewServerContext(cfg *config.Config) *ServerContext {
	layers := make(map[string]config.Layer, len(cfg.Layers))
	for _, l := range cfg.Layers {
		layers[l.Name] = l

		if _, err := os.Stat(cfg.OutputPath(l)); err != nil {
			log.Trace().
				Str("layer", l.Name).
				Str("path", cfg.OutputPath(l)).
				Msg("Layer not generated yet")
		}
	}

	log.Info().
		Int("layers", len(layers)).
		Str("dir", cfg.OutputDir).
		Msg("Server context initialized")

	return &ServerContext{Config: cfg, layers: layers}
}

// Layers returns the configured layers in configuration order.
func (s *ServerContext) Layers() []LayerInfo {
	out := make([]LayerInfo, 0, len(s.Config.Layers))
	for _, l := range s.Config.Layers {
		info := LayerInfo{
			Name:   l.Name,
			Policy: string(s.Config.Options(l).Policy),
		}

		if fi, err := os.Stat(s.Config.OutputPath(l)); err == nil && !fi.IsDir() {
			mod := fi.ModTime().UTC()
			info.HasGeoJSON = true
			info.Size = fi.Size()
			info.Modified = &mod
		}
		if fi, err := os.Stat(s.Config.PreviewPath(l)); err == nil && !fi.IsDir() {
			info.HasPreview = true
		}

		out = append(out, info)
	}
	return out
}
