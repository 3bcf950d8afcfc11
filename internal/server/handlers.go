// Package server publishes corrected layers and their previews over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
)

const etagCap = 64

// HandleLayersList serves the JSON list of configured layers.
func (s *ServerContext) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Layers())
}

// HandleLayer serves /layers/{name}.geojson and /layers/{name}.webp.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	file := strings.TrimPrefix(r.URL.Path, "/layers/")
	if file == "" || strings.Contains(file, "/") {
		http.NotFound(w, r)
		return
	}

	ext := path.Ext(file)
	l, ok := s.layers[strings.TrimSuffix(file, ext)]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch ext {
	case ".geojson":
		if !s.serveFile(w, r, s.Config.OutputPath(l), "application/geo+json") {
			http.NotFound(w, r)
		}
	case ".webp":
		if !s.serveFile(w, r, s.Config.PreviewPath(l), "image/webp") {
			http.NotFound(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	w.Header().Set("Content-Type", contentType)

	http.ServeFile(w, r, path)
	return true
}
