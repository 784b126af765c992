package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Style describes how a layer is drawn. Colors are #rgb, #rrggbb or
// #rrggbbaa; an empty color is not drawn.
type Style struct {
	Fill        string  `yaml:"fill,omitempty" json:"fill,omitempty"`
	Stroke      string  `yaml:"stroke,omitempty" json:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"stroke_width,omitempty" json:"stroke_width,omitempty"`
	PointRadius float64 `yaml:"point_radius,omitempty" json:"point_radius,omitempty"`
}

// DefaultStyle is used for unset fields.
var DefaultStyle = Style{
	Fill:        "#3388ff55",
	Stroke:      "#3388ff",
	StrokeWidth: 2,
	PointRadius: 3,
}

// WithDefaults fills unset fields from DefaultStyle.
func (s Style) WithDefaults() Style {
	if s.Fill == "" {
		s.Fill = DefaultStyle.Fill
	}
	if s.Stroke == "" {
		s.Stroke = DefaultStyle.Stroke
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = DefaultStyle.StrokeWidth
	}
	if s.PointRadius <= 0 {
		s.PointRadius = DefaultStyle.PointRadius
	}
	return s
}

// Validate checks both colors.
func (s Style) Validate() error {
	if _, err := ParseColor(s.Fill); err != nil {
		return errors.Wrap(err, "fill")
	}
	if _, err := ParseColor(s.Stroke); err != nil {
		return errors.Wrap(err, "stroke")
	}
	return nil
}

// ParseColor parses a hex color.
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" || s == "none" {
		return color.NRGBA{}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, errors.Newf("color %q: missing #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, errors.Newf("color %q: unexpected length", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

type palette struct {
	fill, stroke color.NRGBA
	strokeWidth  float64
	pointRadius  float64
}

func (s Style) palette() (palette, error) {
	s = s.WithDefaults()
	fill, err := ParseColor(s.Fill)
	if err != nil {
		return palette{}, err
	}
	stroke, err := ParseColor(s.Stroke)
	if err != nil {
		return palette{}, err
	}
	return palette{fill: fill, stroke: stroke, strokeWidth: s.StrokeWidth, pointRadius: s.PointRadius}, nil
}
