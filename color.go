package prettycolors

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Black is written for cells that never received a color.
var Black = Color{}

func (c Color) vec() r3.Vec {
	return r3.Vec{X: float64(c.R), Y: float64(c.G), Z: float64(c.B)}
}

// RGBA returns c as an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Colorful converts c to a go-colorful color with channels in [0,1].
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromColorful clamps c to the RGB gamut and rounds it to 8 bits per channel.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// ParseHex parses "#rrggbb" (or the short "#rgb" form).
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, Errorf(ErrCodeConfig, "invalid color %q", s)
	}
	return FromColorful(c), nil
}

// Distance is the euclidean distance between a and b over the three 8-bit
// channels. The squared norm is exact for 8-bit inputs, so equal integer
// distances compare equal.
func Distance(a, b Color) float64 {
	return math.Sqrt(r3.Norm2(r3.Sub(a.vec(), b.vec())))
}
