package prettycolors

import (
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// State is the placement engine's position in its level loop.
type State int

const (
	AwaitingLevel State = iota
	Scanning
	Placed
	LevelExhausted
	AllLevelsExhausted
	Aborted
)

func (s State) String() string {
	switch s {
	case AwaitingLevel:
		return "awaiting-level"
	case Scanning:
		return "scanning"
	case Placed:
		return "placed"
	case LevelExhausted:
		return "level-exhausted"
	case AllLevelsExhausted:
		return "all-levels-exhausted"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Engine greedily places every palette color on the grid, one level at a time.
type Engine struct {
	Options Options
	Grid    *Grid
	Palette *Palette
	Stats   []LevelStats

	// OnPlace, if set, runs after every commit with the chosen cell, its
	// color and the winning score.
	OnPlace func(i int, c Color, score float64)

	levels []MaskSource
	rng    *rand.Rand
	logger *log.Logger
	state  State
	nbuf   [8]int
}

// NewRand returns the run-wide random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine validates opt, allocates the grid and palette, shuffles the
// palette and seeds the frontier. A nil logger discards output.
func NewEngine(opt Options, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if err := opt.checkBudget(); err != nil {
		return nil, err
	}

	e := &Engine{
		Options: opt,
		levels:  Levels(opt.Masks...),
		rng:     NewRand(opt.Seed),
		logger:  logger,
	}

	grid, err := NewGrid(opt.Width, opt.Height)
	if err != nil {
		return nil, err
	}
	e.Grid = grid

	if len(opt.Palette) > 0 {
		e.Palette, err = NewPaletteFromColors(opt.Palette)
	} else {
		e.Palette, err = NewPalette(opt.step(), opt.Order, e.rng)
	}
	if err != nil {
		return nil, err
	}

	starts := opt.Starts
	if len(starts) == 0 {
		starts = []Position{grid.Center()}
	}
	for _, p := range starts {
		if err := grid.Seed(p); err != nil {
			return nil, err
		}
	}

	logger.Info("engine ready",
		"size", [2]int{opt.Width, opt.Height},
		"colors", e.Palette.Len(),
		"order", opt.Order,
		"seed", opt.Seed,
		"levels", len(e.levels))
	return e, nil
}

// State reports where the engine is in its level loop.
func (e *Engine) State() State { return e.state }

// Run drains the palette against every level in turn. It returns an error
// only when a level's mask cannot be produced; running out of frontier is
// normal termination. Every level is checked before the first placement.
func (e *Engine) Run() error {
	if err := checkLevels(e.levels, e.Grid.W, e.Grid.H); err != nil {
		e.state = Aborted
		return err
	}
	for _, src := range e.levels {
		if e.Palette.Remaining() == 0 {
			break
		}
		e.state = AwaitingLevel
		mask, err := src.Mask(e.Grid.W, e.Grid.H)
		if err != nil {
			e.state = Aborted
			return err
		}
		if len(mask) != e.Grid.Len() {
			e.state = Aborted
			return Errorf(ErrCodeTemplate, "level %s: mask holds %d cells, grid has %d", src.Name(), len(mask), e.Grid.Len())
		}
		if err := e.drain(src.Name(), mask); err != nil {
			e.state = Aborted
			return err
		}
	}
	e.state = AllLevelsExhausted
	e.logger.Info("placement finished",
		"placed", e.Grid.TouchedCount(),
		"unplaced", e.Palette.Remaining(),
		"cells", e.Grid.Len())
	return nil
}

// drain places colors until the palette is empty or no frontier cell is
// allowed by mask. The color that finds no cell stays at the front of the
// queue for the next level.
func (e *Engine) drain(name string, mask []bool) error {
	st := LevelStats{Name: name, Start: e.Palette.Cursor()}
	for {
		c, ok := e.Palette.Peek()
		if !ok {
			break
		}
		e.state = Scanning
		best, score := e.bestPlace(c, mask)
		if best < 0 {
			e.state = LevelExhausted
			break
		}
		e.Palette.Advance()
		if err := e.Grid.Commit(best, c); err != nil {
			return err
		}
		e.state = Placed
		st.Scores = append(st.Scores, score)
		if e.OnPlace != nil {
			e.OnPlace(best, c, score)
		}
		if n := e.Options.ProgressEvery; n > 0 && e.Palette.Cursor()%n == 0 {
			e.logger.Debugf("placed color %d/%d at %v", e.Palette.Cursor(), min(e.Palette.Len(), e.Grid.Len()), e.Grid.Position(best))
		}
	}
	st.End = e.Palette.Cursor()
	e.Stats = append(e.Stats, st)
	e.logger.Info("level done", "level", name, "placed", st.Placed())
	return nil
}

// bestPlace scans allowed frontier cells in index order. A strictly higher
// score wins; an exact tie replaces the current best on a coin flip.
func (e *Engine) bestPlace(c Color, mask []bool) (int, float64) {
	best := -1
	bestScore := math.Inf(-1)
	for i := range mask {
		if !mask[i] || !e.Grid.frontier[i] {
			continue
		}
		s := e.Score(i, c)
		if s > bestScore {
			best, bestScore = i, s
		} else if s == bestScore && e.rng.IntN(2) == 0 {
			best = i
		}
	}
	return best, bestScore
}

// Score is the negated distance from c to the closest colored neighbor of
// i, or +Inf when i has no colored neighbor.
func (e *Engine) Score(i int, c Color) float64 {
	minDist := math.Inf(1)
	for _, n := range e.Grid.Neighbors(i, e.nbuf[:0]) {
		if !e.Grid.touched[n] {
			continue
		}
		if d := Distance(c, e.Grid.pix[n]); d < minDist {
			minDist = d
		}
	}
	if math.IsInf(minDist, 1) {
		return minDist
	}
	return -minDist
}
