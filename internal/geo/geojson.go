// Package geo reads and writes GeoJSON feature collections and provides
// longitude helpers shared by the pipeline and the preview renderer.
package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
)

const jsonMime = "application/json"

// EncodeOptions controls how a collection is written.
type EncodeOptions struct {
	// Compact strips all whitespace; otherwise output is indented.
	Compact bool
	// Precision is the number of significant digits kept for numbers in
	// compact output, 0 keeps them as they are.
	Precision int
}

// ReadFile loads a feature collection from path.
func ReadFile(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode parses a feature collection from r.
func Decode(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	return fc, nil
}

// Encode writes fc to w.
func Encode(w io.Writer, fc *geojson.FeatureCollection, opts EncodeOptions) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode feature collection: %w", err)
	}

	if opts.Compact {
		m := minify.New()
		m.Add(jsonMime, &minjson.Minifier{Precision: opts.Precision})
		return m.Minify(jsonMime, w, bytes.NewReader(data))
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// WriteFile encodes fc to path, creating parent directories.
func WriteFile(path string, fc *geojson.FeatureCollection, opts EncodeOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return Encode(f, fc, opts)
}
