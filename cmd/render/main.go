package main

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/geocore/internal/config"
	"github.com/woozymasta/geocore/internal/interop"
	"github.com/woozymasta/geocore/internal/logger"
	"github.com/woozymasta/geocore/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Limit       []string `short:"l" long:"limit"        env:"LIMIT_NAMES"  description:"Limit processing to specific layer names"`
	Concurrency int      `short:"p" long:"concurrency"  env:"CONCURRENCY"  description:"Concurrency" default:"8"`
	ZoomLimit   int      `short:"z" long:"zoom-limit"   env:"ZOOM_LIMIT"   description:"Override the tiles zoom limit of every layer"`
	Out         string   `short:"o" long:"out"          env:"TILE_DIR"     description:"Override the tile directory of the configuration"`
	SVG         bool     `short:"s" long:"svg"          description:"Also write <layer>.svg"`
	SVGWidth    int      `short:"w" long:"svg-width"    description:"SVG width in pixels" default:"1024"`
	GeoJSON     bool     `short:"g" long:"geojson"      description:"Also write <layer>.geojson"`
	TilesOff    bool     `short:"T" long:"no-tiles"     description:"Skip tile rendering"`
	Force       bool     `short:"f" long:"force"        description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.InstallCRS(); err != nil {
		log.Fatal().Err(err).Msg("Failed to install CRS definitions")
	}

	if opts.Out != "" {
		cfg.TileDir = opts.Out
	}

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0)
		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			l, ok := cfg.Layer(limitName)
			if !ok {
				log.Error().
					Str("name", limitName).
					Msg("Layer specified in --limit not found in configuration")
				continue
			}
			if seen[l.Name] {
				continue
			}
			seen[l.Name] = true
			layersToProcess = append(layersToProcess, *l)
		}
	}

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layersToProcess)).
		Str("dir", cfg.TileDir).
		Msg("Starting renderer")

	failed := 0
	for i := range layersToProcess {
		if err := processLayer(cfg, &layersToProcess[i], opts); err != nil {
			failed++
			log.Error().Err(err).Str("layer", layersToProcess[i].Name).Msg("Failed to process layer")
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Renderer finished with errors")
	}
	log.Info().Msg("Renderer finished successfully")
}

func processLayer(cfg *config.Config, lc *config.Layer, opts Options) error {
	geoms, err := lc.Geometries()
	if err != nil {
		return err
	}

	if opts.GeoJSON {
		path := filepath.Join(cfg.TileDir, lc.Name+".geojson")
		if _, err := os.Stat(path); err == nil && !opts.Force {
			log.Debug().Str("path", path).Msg("GeoJSON exists, skipping")
		} else {
			fc, err := interop.FeatureCollectionOf(geoms, map[string]any{"layer": lc.Name}, cfg.DecimalDigits())
			if err != nil {
				return err
			}
			if err := interop.WriteFeatureCollection(path, fc); err != nil {
				return err
			}
			log.Info().Str("path", path).Int("features", len(fc.Features)).Msg("GeoJSON written")
		}
	}

	layer, err := render.NewLayer(lc.Name, geoms, lc.Style)
	if err != nil {
		return err
	}

	if opts.SVG {
		if err := writeSVG(layer, filepath.Join(cfg.TileDir, lc.Name+".svg"), opts.SVGWidth); err != nil {
			return err
		}
	}

	if opts.TilesOff {
		return nil
	}

	zoom := lc.ZoomLimit
	if opts.ZoomLimit > 0 {
		zoom = opts.ZoomLimit
	}
	_, err = render.ProcessTiles(layer, render.TileOptions{
		Dir:         filepath.Join(cfg.TileDir, lc.Name),
		ZoomLimit:   zoom,
		TileSize:    lc.TileSize,
		Concurrency: opts.Concurrency,
		Force:       opts.Force,
	})
	return err
}

func writeSVG(layer *render.Layer, path string, width int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := layer.SVG(f, width); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("SVG written")
	return nil
}
