package crs

import (
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// AxisOrder tells whether a CRS lists x (easting, longitude) or y first.
type AxisOrder uint8

const (
	// AxisXY lists x (longitude) before y (latitude).
	AxisXY AxisOrder = iota
	// AxisYX lists y (latitude) before x (longitude).
	AxisYX
)

func (a AxisOrder) String() string {
	if a == AxisYX {
		return "yx"
	}
	return "xy"
}

// MarshalText implements encoding.TextMarshaler.
func (a AxisOrder) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AxisOrder) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "xy", "":
		*a = AxisXY
	case "yx":
		*a = AxisYX
	default:
		return errors.Newf("unknown axis order %q", text)
	}
	return nil
}

// Resolver normalizes CRS identifiers and answers metadata queries about them.
type Resolver interface {
	NormalizeID(id string) string
	EPSG(id string) (int, bool)
	IsGeographic(id string) bool
	AxisOrder(id string) (AxisOrder, bool)
}

// ErrResolverInstalled is returned when the process-wide resolver was already
// fixed, either by SetResolver or by the first CurrentResolver call.
var ErrResolverInstalled = errors.New("crs resolver already installed")

var (
	resolverOnce sync.Once
	resolver     Resolver
)

// SetResolver installs r as the process-wide resolver. It succeeds only once,
// and only before any CurrentResolver call; it must happen-before every
// concurrent reader, typically at program start.
func SetResolver(r Resolver) error {
	installed := false
	resolverOnce.Do(func() {
		resolver = r
		installed = true
	})
	if !installed {
		return ErrResolverInstalled
	}
	return nil
}

// CurrentResolver returns the process-wide resolver, freezing DefaultResolver
// if none was installed.
func CurrentResolver() Resolver {
	resolverOnce.Do(func() { resolver = DefaultResolver })
	return resolver
}

// DefaultResolver keeps identifiers as they are and recognizes EPSG codes in
// the "EPSG:n", URN and OGC URI notations.
var DefaultResolver Resolver = defaultResolver{}

type defaultResolver struct{}

const (
	ogcCRSPrefix = "http://www.opengis.net/def/crs/"
	epsgURIPath  = "EPSG/0/"
)

var geographicEPSG = map[int]bool{
	4230: true, // ED50
	4258: true, // ETRS89
	4267: true, // NAD27
	4269: true, // NAD83
	4277: true, // OSGB36
	4322: true, // WGS 72
	4326: true, // WGS 84
	4937: true, // ETRS89 3D
	4979: true, // WGS 84 3D
}

func (defaultResolver) NormalizeID(id string) string { return id }

func (defaultResolver) EPSG(id string) (int, bool) {
	var code string
	lower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(lower, "epsg:"):
		code = id[len("epsg:"):]
	case strings.HasPrefix(lower, "urn:ogc:def:crs:epsg:"):
		code = id[strings.LastIndexByte(id, ':')+1:]
	case strings.HasPrefix(id, ogcCRSPrefix+epsgURIPath):
		code = id[len(ogcCRSPrefix+epsgURIPath):]
	default:
		return 0, false
	}
	n, err := strconv.Atoi(code)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func isCRS84(id string) bool {
	return strings.HasPrefix(id, ogcCRSPrefix+"OGC/") &&
		(strings.HasSuffix(id, "/CRS84") || strings.HasSuffix(id, "/CRS84h"))
}

func (r defaultResolver) IsGeographic(id string) bool {
	if isCRS84(id) {
		return true
	}
	code, ok := r.EPSG(id)
	return ok && geographicEPSG[code]
}

func (r defaultResolver) AxisOrder(id string) (AxisOrder, bool) {
	if isCRS84(id) {
		return AxisXY, true
	}
	code, ok := r.EPSG(id)
	if !ok {
		return AxisXY, false
	}
	if geographicEPSG[code] {
		return AxisYX, true
	}
	return AxisXY, true
}
