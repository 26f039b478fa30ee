package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Defaults for the output canvas.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultBackground = "#000000"
)

// Canvas is the stage every layer box fills before its transform.
type Canvas struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

// WithDefaults fills zero fields with the package defaults.
func (c Canvas) WithDefaults() Canvas {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
	return c
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Num formats v without trailing zeros. NaN and infinities come out as
// "NaN", "+Inf" and "-Inf".
func Num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Unit clamps v into [0, 1] for raster blending; NaN becomes def.
func Unit(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Max(0, math.Min(1, v))
}
