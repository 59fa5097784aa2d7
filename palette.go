package prettycolors

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"
)

// Order selects how the generated cube colors are arranged before placement.
type Order int

const (
	// OrderShuffle applies a Fisher-Yates permutation drawn from the run's random source.
	OrderShuffle Order = iota
	// OrderNatural keeps cube enumeration order (red outer, blue inner).
	OrderNatural
	// OrderBrightness sorts darkest to brightest.
	OrderBrightness
)

func (o Order) String() string {
	switch o {
	case OrderNatural:
		return "natural"
	case OrderBrightness:
		return "brightness"
	default:
		return "shuffle"
	}
}

// ParseOrder is the inverse of Order.String.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "shuffle":
		return OrderShuffle, nil
	case "natural":
		return OrderNatural, nil
	case "brightness":
		return OrderBrightness, nil
	}
	return OrderShuffle, Errorf(ErrCodeConfig, "invalid order %q (must be shuffle, natural or brightness)", s)
}

// Palette is the ordered queue of colors waiting to be placed.
type Palette struct {
	colors []Color
	next   int
}

// ChannelLevels is the number of values {0, s, 2s, ...} below 256.
func ChannelLevels(step int) int {
	if step < 1 {
		return 0
	}
	return 255/step + 1
}

// PaletteSize is the number of colors NewPalette produces for step.
func PaletteSize(step int) int {
	n := ChannelLevels(step)
	return n * n * n
}

// StepForCells picks the channel step whose cube roughly matches n cells.
func StepForCells(n int) int {
	if n <= 0 {
		return 1
	}
	return max(1, int(256/math.Cbrt(float64(n))))
}

// NewPalette samples the RGB cube at step and arranges it according to order.
// rng is only consumed for OrderShuffle.
func NewPalette(step int, order Order, rng *rand.Rand) (*Palette, error) {
	if step < 1 || step > 256 {
		return nil, Errorf(ErrCodeConfig, "step must be within [1, 256], not %d", step)
	}
	n := PaletteSize(step)
	if n == 0 {
		return nil, Errorf(ErrCodeConfig, "step %d yields no colors", step)
	}
	colors := make([]Color, 0, n)
	for r := 0; r < 256; r += step {
		for g := 0; g < 256; g += step {
			for b := 0; b < 256; b += step {
				colors = append(colors, Color{uint8(r), uint8(g), uint8(b)})
			}
		}
	}
	switch order {
	case OrderShuffle:
		if rng == nil {
			return nil, Errorf(ErrCodeInternal, "shuffle requires a random source")
		}
		shuffle(colors, rng)
	case OrderBrightness:
		sortByBrightness(colors)
	}
	return &Palette{colors: colors}, nil
}

// NewPaletteFromColors uses colors as-is, in order.
func NewPaletteFromColors(colors []Color) (*Palette, error) {
	if len(colors) == 0 {
		return nil, Errorf(ErrCodeConfig, "palette is empty")
	}
	return &Palette{colors: slices.Clone(colors)}, nil
}

// shuffle swaps every position c < n-1 with a uniform pick from [c, n-1].
func shuffle(colors []Color, rng *rand.Rand) {
	n := len(colors)
	for c := 0; c < n-1; c++ {
		j := c + rng.IntN(n-c)
		colors[c], colors[j] = colors[j], colors[c]
	}
}

// sortByBrightness orders colors from darkest to brightest by relative
// luminance of linear RGB. Equal luminance keeps cube order.
func sortByBrightness(colors []Color) {
	slices.SortStableFunc(colors, func(a, b Color) int {
		ya, yb := luminance(a), luminance(b)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

func luminance(c Color) float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Len is the total number of colors, placed or not.
func (p *Palette) Len() int { return len(p.colors) }

// Cursor is the index of the next color to place.
func (p *Palette) Cursor() int { return p.next }

// Remaining is the number of colors not yet drawn.
func (p *Palette) Remaining() int { return len(p.colors) - p.next }

// Peek returns the next color without consuming it.
func (p *Palette) Peek() (Color, bool) {
	if p.next >= len(p.colors) {
		return Color{}, false
	}
	return p.colors[p.next], true
}

// Advance consumes the color returned by Peek.
func (p *Palette) Advance() {
	if p.next < len(p.colors) {
		p.next++
	}
}

// Colors returns a copy of the full queue.
func (p *Palette) Colors() []Color {
	return slices.Clone(p.colors)
}
