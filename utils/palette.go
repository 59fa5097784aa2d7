package utils

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	pc "github.com/setanarut/prettycolors"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod is the inverse of PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(s) {
	case "", "dominantcolor":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, pc.Errorf(pc.ErrCodeConfig, "invalid palette method %q (must be dominantcolor or kmeans)", s)
}

// Swatch is one representative color of an image and its share of pixels
// (kmeans) or dominance weight (dominantcolor).
type Swatch struct {
	Color  pc.Color
	Weight float64
}

// ExtractPalette summarizes img with up to k mutually distinct colors,
// strongest first.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []Swatch {
	if method == PaletteMethodKMeans {
		if p := kmeansSwatches(img, k); len(p) != 0 {
			return p
		}
		log.Warn("kmeans returned empty palette, falling back to dominantcolor")
	}
	return dominantSwatches(img, k)
}

func dominantSwatches(img image.Image, k int) []Swatch {
	if k <= 0 {
		return nil
	}
	found := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]Swatch, 0, len(found))
	for _, c := range found {
		cands = append(cands, Swatch{
			Color:  pc.Color{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B},
			Weight: c.Weight,
		})
	}
	return pickDiverse(cands, k)
}

// kmeansSwatches clusters a subsample of opaque pixels in RGB.
func kmeansSwatches(img image.Image, k int) []Swatch {
	b := img.Bounds()
	if k <= 0 || b.Empty() {
		return nil
	}
	const maxSamples = 12000
	stride := 1
	if n := b.Dx() * b.Dy(); n > maxSamples {
		stride = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}

	var obs clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += stride {
		for x := b.Min.X; x < b.Max.X; x += stride {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(bl) / 0xffff,
			})
		}
	}
	if len(obs) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(obs, min(max(k*4, k+2), len(obs)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	cands := make([]Swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		cands = append(cands, Swatch{
			Color:  pc.FromColorful(colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}),
			Weight: float64(len(c.Observations)) / float64(len(obs)),
		})
	}
	return pickDiverse(cands, k)
}

// pickDiverse starts from the heaviest candidate, then repeatedly adds the
// candidate farthest in Lab from everything picked so far, discounted by
// its relative weight.
func pickDiverse(cands []Swatch, k int) []Swatch {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	labs := make([][3]float64, len(cands))
	maxW := 1e-6
	seed := 0
	for i, c := range cands {
		l, a, b := c.Color.Colorful().Lab()
		labs[i] = [3]float64{l, a, b}
		maxW = max(maxW, c.Weight)
		if c.Weight > cands[seed].Weight {
			seed = i
		}
	}

	picked := []int{seed}
	used := make([]bool, len(cands))
	used[seed] = true
	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range cands {
			if used[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				d0 := labs[i][0] - labs[s][0]
				d1 := labs[i][1] - labs[s][1]
				d2 := labs[i][2] - labs[s][2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			w := max(cands[i].Weight, 1e-6) / maxW
			if score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(w)); score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make([]Swatch, 0, len(picked))
	for _, i := range picked {
		out = append(out, cands[i])
	}
	slices.SortStableFunc(out, func(a, b Swatch) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})
	return out
}

// SwatchImage draws one tileSize square per color, left to right.
func SwatchImage(colors []pc.Color, tileSize int) (*image.RGBA, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(colors), tileSize))
	for i, c := range colors {
		fill := c.RGBA()
		for y := range tileSize {
			for x := i * tileSize; x < (i+1)*tileSize; x++ {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img, nil
}

// SaveSwatches writes the swatch colors as a PNG strip.
func SaveSwatches(swatches []Swatch, tileSize int, filename string) error {
	colors := make([]pc.Color, len(swatches))
	for i, s := range swatches {
		colors[i] = s.Color
	}
	img, err := SwatchImage(colors, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(img, filename)
}
