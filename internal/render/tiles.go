package render

import (
	"image"
	"image/draw"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/chai2010/webp"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/projection"
	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultTileSize is the edge of a tile in pixels.
	DefaultTileSize = 256
	// MaxZoom is the deepest level TileCoordinate accepts.
	MaxZoom = 24

	supersample = 2
	webpQuality = 85
)

// worldHalf is half the edge of the square Web Mercator world in meters.
const worldHalf = math.Pi * projection.EarthRadius

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z, X, Y int
}

// Valid reports whether the tile exists in the pyramid.
func (t TileCoordinate) Valid() bool {
	if t.Z < 0 || t.Z > MaxZoom {
		return false
	}
	n := 1 << t.Z
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

func (t TileCoordinate) String() string {
	return strconv.Itoa(t.Z) + "/" + strconv.Itoa(t.X) + "/" + strconv.Itoa(t.Y)
}

// Path is the location of the tile image below dir.
func (t TileCoordinate) Path(dir string) string {
	return filepath.Join(dir, strconv.Itoa(t.Z), strconv.Itoa(t.X), strconv.Itoa(t.Y)+".webp")
}

// Children returns the four tiles of the next level.
func (t TileCoordinate) Children() [4]TileCoordinate {
	nx, ny := t.X*2, t.Y*2
	return [4]TileCoordinate{
		{Z: t.Z + 1, X: nx, Y: ny},
		{Z: t.Z + 1, X: nx + 1, Y: ny},
		{Z: t.Z + 1, X: nx, Y: ny + 1},
		{Z: t.Z + 1, X: nx + 1, Y: ny + 1},
	}
}

// TileBounds returns the extent of t in Web Mercator meters. Y grows
// southwards in tile rows.
func TileBounds(t TileCoordinate) coord.Box {
	span := 2 * worldHalf / float64(int(1)<<t.Z)
	minX := -worldHalf + float64(t.X)*span
	maxY := worldHalf - float64(t.Y)*span
	return coord.Box{MinX: minX, MinY: maxY - span, MaxX: minX + span, MaxY: maxY}
}

// RenderTile draws the layer geometries touching t into a size x size image.
// Drawing happens at twice the size and is scaled down.
func RenderTile(l *Layer, t TileCoordinate, size int) *image.RGBA {
	if size <= 0 {
		size = DefaultTileSize
	}
	box := TileBounds(t)
	big := image.NewRGBA(image.Rect(0, 0, size*supersample, size*supersample))
	c := newCanvas(big, box, l.palette, supersample)

	margin := c.margin()
	for _, g := range l.Geometries {
		if b, ok := g.Bounds(); ok && b.Intersects(grow(box, margin)) {
			c.geometry(g)
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), big, big.Bounds(), draw.Over, nil)
	return out
}

// EncodeTile writes img as lossy WebP.
func EncodeTile(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: webpQuality})
}

// encodeTile is replaced in tests.
var encodeTile = EncodeTile

// writeTile encodes img into a temporary file renamed to path once closed.
// Nothing is left at either path on failure.
func writeTile(path string, img image.Image) (err error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := encodeTile(f, img); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp)
	}
	return os.Rename(tmp, path)
}

func grow(b coord.Box, d float64) coord.Box {
	return coord.Box{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

// TileOptions controls ProcessTiles.
type TileOptions struct {
	Dir         string
	ZoomLimit   int
	TileSize    int
	Concurrency int
	Force       bool
}

type job struct {
	Coord TileCoordinate
}

type result struct {
	Coord   TileCoordinate
	Valid   bool
	Written bool
	Err     error
}

// ProcessTiles renders the tile pyramid of the layer into Dir as z/x/y.webp.
// Only tiles overlapping the layer bounds are rendered, and a level is
// descended only below rendered tiles. It returns the number of files
// written.
func ProcessTiles(l *Layer, opts TileOptions) (int, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.ZoomLimit > MaxZoom {
		opts.ZoomLimit = MaxZoom
	}

	log.Info().
		Str("layer", l.Name).
		Int("zoom", opts.ZoomLimit).
		Str("dir", opts.Dir).
		Msg("Starting tile rendering")

	var (
		written int
		failed  int
	)
	currentLevelTiles := []TileCoordinate{{0, 0, 0}}

	for z := 0; z <= opts.ZoomLimit && len(currentLevelTiles) > 0; z++ {
		log.Debug().Int("zoom", z).Int("count", len(currentLevelTiles)).Msg("Processing zoom level")

		results := processBatch(l, opts, currentLevelTiles)

		nextLevelTiles := make([]TileCoordinate, 0, len(results)*4)
		for _, res := range results {
			if res.Err != nil {
				failed++
				log.Error().Err(res.Err).Str("tile", res.Coord.String()).Msg("Failed to render tile")
				continue
			}
			if res.Written {
				written++
			}
			if res.Valid {
				children := res.Coord.Children()
				nextLevelTiles = append(nextLevelTiles, children[:]...)
			}
		}
		currentLevelTiles = nextLevelTiles
	}

	log.Info().
		Str("layer", l.Name).
		Int("written", written).
		Int("failed", failed).
		Msg("Tile rendering finished")

	if failed > 0 {
		return written, errors.Newf("layer %s: %d tiles failed", l.Name, failed)
	}
	return written, nil
}

func processBatch(l *Layer, opts TileOptions, tiles []TileCoordinate) []result {
	jobs := make(chan job, len(tiles))
	results := make(chan result, len(tiles))

	go func() {
		for _, t := range tiles {
			jobs <- job{Coord: t}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- renderJob(l, opts, j)
			}
		}()
	}
	wg.Wait()
	close(results)

	out := make([]result, 0, len(tiles))
	for res := range results {
		out = append(out, res)
	}
	return out
}

func renderJob(l *Layer, opts TileOptions, j job) result {
	res := result{Coord: j.Coord}
	if !l.Intersects(TileBounds(j.Coord)) {
		return res
	}
	res.Valid = true

	outPath := j.Coord.Path(opts.Dir)
	if !opts.Force {
		if info, err := os.Stat(outPath); err == nil && info.Size() > 0 {
			return res
		}
	}

	img := RenderTile(l, j.Coord, opts.TileSize)

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Err = err
		return res
	}
	if err := writeTile(outPath, img); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	return res
}
