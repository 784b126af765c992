package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/interop"
	"github.com/woozymasta/geocore/internal/logger"
	"github.com/woozymasta/geocore/internal/projection"
	"github.com/woozymasta/geocore/internal/wkt"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input      string  `short:"i" long:"in"         description:"Input file with one WKT geometry per line. Reads from stdin if empty"`
	Output     string  `short:"o" long:"out"        description:"Output file path. Writes to stdout if empty"`
	Format     string  `short:"f" long:"format"     description:"Output format" choice:"wkt" choice:"geojson" choice:"yaml" choice:"wkb" default:"wkt"`
	Project    string  `short:"p" long:"project"    description:"Projection applied to every geometry (utm:33N, webmercator, geocentric, datum:osgb36, ...)"`
	Inverse    bool    `short:"I" long:"inverse"    description:"Apply the inverse projection; input is projected"`
	Geographic bool    `short:"g" long:"geographic" description:"Input coordinates are longitude/latitude"`
	Decimals   int     `short:"d" long:"decimals"   description:"Fractional digits written, negative for full precision" default:"-1"`
	Analyze    bool    `short:"a" long:"analyze"    description:"Add area, centroid and label properties (geojson and yaml)"`
	Precision  float64 `long:"precision"            description:"Label precision in coordinate units" default:"1"`
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

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open input file")
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	var decodeOpts []wkt.Option
	if opts.Geographic || (opts.Project != "" && !opts.Inverse) {
		decodeOpts = append(decodeOpts, wkt.Geographic())
	}
	geoms, err := wkt.ReadAll(in, decodeOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read geometries")
	}

	if opts.Project != "" {
		geoms, err = project(geoms, opts.Project, opts.Inverse)
		if err != nil {
			log.Fatal().Err(err).Str("projection", opts.Project).Msg("Failed to project geometries")
		}
	}

	if opts.Analyze && (opts.Format == "wkt" || opts.Format == "wkb") {
		log.Warn().Str("format", opts.Format).Msg("--analyze only applies to geojson and yaml output")
	}

	outputData, err := marshal(geoms, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal geometries")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output file")
		}
		log.Info().
			Int("geometries", len(geoms)).
			Str("path", opts.Output).
			Str("format", opts.Format).
			Msg("Conversion finished")
	} else {
		_, _ = os.Stdout.Write(outputData)
	}
}

func project(geoms []geo.Geometry, name string, inverse bool) ([]geo.Geometry, error) {
	adapter, err := projection.Parse(name)
	if err != nil {
		return nil, err
	}
	p := adapter.Forward
	if inverse {
		p = adapter.Inverse
	}
	out := make([]geo.Geometry, len(geoms))
	for i, g := range geoms {
		if out[i], err = geo.Project(g, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func marshal(geoms []geo.Geometry, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	switch opts.Format {
	case "wkt":
		w := wkt.NewWriter(&buf, wkt.WithDecimals(opts.Decimals))
		for _, g := range geoms {
			if err := g.Write(w); err != nil {
				return nil, err
			}
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil

	case "wkb":
		for _, g := range geoms {
			s, err := interop.MarshalWKBHex(g)
			if err != nil {
				return nil, err
			}
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	}

	fc := interop.NewFeatureCollection()
	for i, g := range geoms {
		props := map[string]any{"index": i}
		if opts.Analyze {
			a, err := interop.Analyze(g, opts.Precision, opts.Decimals)
			if err != nil {
				return nil, err
			}
			for k, v := range a.Properties() {
				props[k] = v
			}
		}
		f, err := interop.NewFeature(g, props, opts.Decimals)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, f)
	}

	if opts.Format == "yaml" {
		return yaml.Marshal(fc)
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
