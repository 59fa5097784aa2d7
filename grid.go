package prettycolors

import (
	"image"
)

// Position is a (row, column) cell coordinate.
type Position struct {
	Row, Col int
}

// Grid holds the color buffer and the touched / frontier bitmaps, all
// row-major over W*H cells.
type Grid struct {
	W, H     int
	pix      []Color
	touched  []bool
	frontier []bool

	nTouched  int
	nFrontier int
}

// NewGrid returns an empty grid: nothing touched, nothing on the frontier.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, Errorf(ErrCodeConfig, "grid dimensions must be positive, not %dx%d", w, h)
	}
	n := w * h
	return &Grid{
		W:        w,
		H:        h,
		pix:      make([]Color, n),
		touched:  make([]bool, n),
		frontier: make([]bool, n),
	}, nil
}

// Len is W*H.
func (g *Grid) Len() int { return len(g.pix) }

// Index converts a position to a row-major cell index. It returns -1 when
// the position is outside the grid.
func (g *Grid) Index(p Position) int {
	if p.Row < 0 || p.Row >= g.H || p.Col < 0 || p.Col >= g.W {
		return -1
	}
	return p.Row*g.W + p.Col
}

// Position converts a cell index back to row and column.
func (g *Grid) Position(i int) Position {
	return Position{Row: i / g.W, Col: i % g.W}
}

// Center is (H/2, W/2), the default seed.
func (g *Grid) Center() Position {
	return Position{Row: g.H / 2, Col: g.W / 2}
}

func (g *Grid) Touched(i int) bool  { return g.touched[i] }
func (g *Grid) Frontier(i int) bool { return g.frontier[i] }

// At returns the color committed at i. It is meaningless for untouched cells.
func (g *Grid) At(i int) Color { return g.pix[i] }

func (g *Grid) TouchedCount() int  { return g.nTouched }
func (g *Grid) FrontierCount() int { return g.nFrontier }

// Seed puts an untouched cell on the frontier without coloring it.
func (g *Grid) Seed(p Position) error {
	i := g.Index(p)
	if i < 0 {
		return Errorf(ErrCodeConfig, "seed (%d,%d) outside %dx%d grid", p.Row, p.Col, g.W, g.H)
	}
	if g.touched[i] {
		return Errorf(ErrCodeConfig, "seed (%d,%d) already colored", p.Row, p.Col)
	}
	g.markFrontier(i)
	return nil
}

// Neighbors appends the in-bounds 8-neighbors of i to buf[:0]. Row offset
// is the outer loop and column offset the inner one.
func (g *Grid) Neighbors(i int, buf []int) []int {
	buf = buf[:0]
	r, c := i/g.W, i%g.W
	for ro := -1; ro <= 1; ro++ {
		nr := r + ro
		if nr < 0 || nr >= g.H {
			continue
		}
		for co := -1; co <= 1; co++ {
			if ro == 0 && co == 0 {
				continue
			}
			nc := c + co
			if nc < 0 || nc >= g.W {
				continue
			}
			buf = append(buf, nr*g.W+nc)
		}
	}
	return buf
}

// Commit colors cell i and grows the frontier to its untouched neighbors.
func (g *Grid) Commit(i int, col Color) error {
	if i < 0 || i >= len(g.pix) {
		return Errorf(ErrCodeInternal, "commit index %d outside grid", i)
	}
	if g.touched[i] {
		return Errorf(ErrCodeInternal, "cell %d already colored", i)
	}
	if g.frontier[i] {
		g.frontier[i] = false
		g.nFrontier--
	}
	g.touched[i] = true
	g.nTouched++
	g.pix[i] = col

	var nbuf [8]int
	for _, n := range g.Neighbors(i, nbuf[:0]) {
		if !g.touched[n] {
			g.markFrontier(n)
		}
	}
	return nil
}

func (g *Grid) markFrontier(i int) {
	if !g.frontier[i] {
		g.frontier[i] = true
		g.nFrontier++
	}
}

// Colors returns every cell in row-major order, with Black for cells that
// were never colored.
func (g *Grid) Colors() []Color {
	out := make([]Color, len(g.pix))
	for i := range g.pix {
		if g.touched[i] {
			out[i] = g.pix[i]
		} else {
			out[i] = Black
		}
	}
	return out
}

// Image renders the grid as an opaque RGBA image.
func (g *Grid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for i, c := range g.Colors() {
		img.SetRGBA(i%g.W, i/g.W, c.RGBA())
	}
	return img
}
