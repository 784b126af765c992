package server

import (
	"bytes"
	"image"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geocore/internal/config"
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/render"
)

// layerEntry is a configured layer with its loaded geometries.
type layerEntry struct {
	config config.Layer
	// longitude/latitude geometries
	geoms  []geo.Geometry
	render *render.Layer
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config            *config.Config
	LayerNameResolver map[string]string
	TransparentTile   []byte

	layers map[string]*layerEntry
}

// NewServerContext loads the geometries of every configured layer.
// Layers that fail to load are dropped from the configuration.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().Int("config_layers_count", len(cfg.Layers)).Msg("Initializing server context")

	resolver := make(map[string]string)
	layers := make(map[string]*layerEntry, len(cfg.Layers))
	validLayers := make([]config.Layer, 0, len(cfg.Layers))

	for i := range cfg.Layers {
		l := cfg.Layers[i]

		geoms, err := l.Geometries()
		if err != nil {
			log.Warn().Err(err).Str("layer", l.Name).Msg("Skipping layer: geometries failed to load")
			continue
		}
		rl, err := render.NewLayer(l.Name, geoms, l.Style)
		if err != nil {
			log.Warn().Err(err).Str("layer", l.Name).Msg("Skipping layer: cannot be rendered")
			continue
		}

		resolver[l.Name] = l.Name
		for _, alias := range l.Aliases {
			resolver[alias] = l.Name
		}
		layers[l.Name] = &layerEntry{config: l, geoms: geoms, render: rl}

		log.Debug().
			Str("layer", l.Name).
			Int("geometries", len(geoms)).
			Msg("Layer loaded and added to context")

		validLayers = append(validLayers, l)
	}

	cfg.Layers = validLayers

	log.Info().
		Int("valid_layers_count", len(cfg.Layers)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:            cfg,
		LayerNameResolver: resolver,
		TransparentTile:   transparentTile(),
		layers:            layers,
	}
}

func (s *ServerContext) layer(name string) (*layerEntry, bool) {
	canonical, ok := s.LayerNameResolver[name]
	if !ok {
		return nil, false
	}
	l, ok := s.layers[canonical]
	return l, ok
}

// Handler returns the routes wrapped in request logging.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/layers", s.HandleLayersList)
	mux.HandleFunc("POST /api/analyze", s.HandleAnalyze)
	mux.HandleFunc("POST /api/project", s.HandleProject)
	mux.HandleFunc("GET /layers/{layer}", s.HandleLayerGeoJSON)
	mux.HandleFunc("GET /tiles/{layer}/{z}/{x}/{y}", s.HandleTile)
	return RequestLogger(mux)
}

func transparentTile() []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, render.DefaultTileSize, render.DefaultTileSize))
	if err := render.EncodeTile(&buf, img); err != nil {
		log.Error().Err(err).Msg("Failed to encode transparent tile")
		return nil
	}
	return buf.Bytes()
}
