// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"hash/fnv"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/interop"
	"github.com/woozymasta/geocore/internal/projection"
	"github.com/woozymasta/geocore/internal/render"
	"github.com/woozymasta/geocore/internal/wkt"
)

const (
	etagCap     = 64
	maxBodySize = 16 << 20
)

// HandleLayersList serves the JSON configuration of available layers.
func (s *ServerContext) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config.Layers)
}

// HandleAnalyze reads one WKT geometry from the body and reports its type,
// bounds, area, centroid, label point and WKB.
//
// Query: geographic=true decodes longitude/latitude kinds, precision sets
// the label precision.
func (s *ServerContext) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	precision := s.Config.LabelPrecision
	if v := q.Get("precision"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "precision"))
			return
		}
		precision = p
	}
	geographic, err := queryBool(q.Get("geographic"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	text, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var opts []wkt.Option
	if geographic {
		opts = append(opts, wkt.Geographic())
	}
	g, err := wkt.Decode(text, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a, err := interop.Analyze(g, precision, s.Config.DecimalDigits())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleProject reads WKT geometries, one per line, and returns them
// projected with the projection named by the "to" query parameter.
// inverse=true applies the inverse and reads projected input.
func (s *ServerContext) HandleProject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	adapter, err := projection.Parse(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	inverse, err := queryBool(q.Get("inverse"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	decimals := s.Config.DecimalDigits()
	if v := q.Get("decimals"); v != "" {
		if decimals, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "decimals"))
			return
		}
	}

	p := adapter.Forward
	var opts []wkt.Option
	if inverse {
		p = adapter.Inverse
	} else {
		opts = append(opts, wkt.Geographic())
	}

	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	geoms, err := wkt.ReadAll(body, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	out := wkt.NewWriter(&buf, wkt.WithDecimals(decimals))
	for _, g := range geoms {
		projected, err := geo.Project(g, p)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		if err := projected.Write(out); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		buf.WriteByte('\n')
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleLayerGeoJSON serves /layers/{layer}.geojson.
func (s *ServerContext) HandleLayerGeoJSON(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("layer"), ".geojson")
	if !ok {
		http.NotFound(w, r)
		return
	}
	l, ok := s.layer(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	fc, err := interop.FeatureCollectionOf(l.geoms, map[string]any{"layer": l.config.Name}, s.Config.DecimalDigits())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(fc)
}

// HandleTile serves /tiles/{layer}/{z}/{x}/{y}.webp from the tile directory,
// rendering tiles that were not generated ahead of time.
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	l, ok := s.layer(r.PathValue("layer"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	tile, ok := parseTile(r)
	if !ok || tile.Z > l.config.ZoomLimit {
		http.NotFound(w, r)
		return
	}

	path := tile.Path(filepath.Join(s.Config.TileDir, l.config.Name))
	if s.serveFile(w, r, path, "image/webp") {
		return
	}

	if !l.render.Intersects(render.TileBounds(tile)) {
		w.Header().Set("Content-Type", "image/webp")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(s.TransparentTile)
		return
	}

	var buf bytes.Buffer
	if err := render.EncodeTile(&buf, render.RenderTile(l.render, tile, l.config.TileSize)); err != nil {
		log.Error().Err(err).Str("tile", tile.String()).Msg("Failed to encode tile")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	h := fnv.New64a()
	_, _ = h.Write(buf.Bytes())
	etag := `"` + strconv.FormatUint(h.Sum64(), 16) + `"`
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(buf.Bytes())
}

func parseTile(r *http.Request) (render.TileCoordinate, bool) {
	yStr, ok := strings.CutSuffix(r.PathValue("y"), ".webp")
	if !ok {
		return render.TileCoordinate{}, false
	}
	z, errZ := strconv.Atoi(r.PathValue("z"))
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(yStr)
	if errZ != nil || errX != nil || errY != nil {
		return render.TileCoordinate{}, false
	}
	tile := render.TileCoordinate{Z: z, X: x, Y: y}
	return tile, tile.Valid()
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "boolean parameter %q", v)
	}
	return b, nil
}

func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	return string(data), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
