package crs

// CoordRefSys is a normalized CRS identifier. Metadata is looked up through
// the process-wide resolver.
type CoordRefSys struct {
	id string
}

// CRS normalizes id with the current resolver.
func CRS(id string) CoordRefSys {
	return CoordRefSys{id: CurrentResolver().NormalizeID(id)}
}

// Well known identifiers.
const (
	CRS84ID  = "http://www.opengis.net/def/crs/OGC/1.3/CRS84"
	CRS84hID = "http://www.opengis.net/def/crs/OGC/0/CRS84h"
	EPSG4326 = "http://www.opengis.net/def/crs/EPSG/0/4326"
	EPSG4258 = "http://www.opengis.net/def/crs/EPSG/0/4258"
	EPSG3857 = "http://www.opengis.net/def/crs/EPSG/0/3857"
)

// ID returns the normalized identifier.
func (c CoordRefSys) ID() string { return c.id }

// EPSG returns the EPSG code, when the identifier carries one.
func (c CoordRefSys) EPSG() (int, bool) { return CurrentResolver().EPSG(c.id) }

// IsGeographic reports whether coordinates are longitude and latitude.
func (c CoordRefSys) IsGeographic() bool { return CurrentResolver().IsGeographic(c.id) }

// AxisOrder returns the declared axis order, AxisXY when unknown.
func (c CoordRefSys) AxisOrder() AxisOrder {
	order, _ := CurrentResolver().AxisOrder(c.id)
	return order
}

// SwapXY reports whether coordinates are stored latitude first.
func (c CoordRefSys) SwapXY() bool { return c.AxisOrder() == AxisYX }

func (c CoordRefSys) String() string { return c.id }
