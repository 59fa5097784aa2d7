package prettycolors

import "math"

// DefaultMemoryBudget bounds the buffers a single run may allocate.
const DefaultMemoryBudget int64 = 1 << 31

type Options struct {
	// Grid width and height in cells.
	// A full 256-step cube needs 4096x4096.
	Width, Height int
	// Channel step for sampling the RGB cube, in [1, 256].
	// Zero derives it so the palette size roughly matches Width*Height.
	// Palettes larger than the grid leave their tail unplaced; smaller ones leave black cells.
	Step int
	// Palette arrangement. OrderShuffle is the only mode that draws from the random source.
	Order Order
	// Explicit palette. When non-empty Step and Order are ignored.
	Palette []Color
	// Seed of the run's random source (shuffle, then tie-breaks).
	// Identical seeds and options give identical images.
	Seed uint64
	// Initial frontier cells. Empty means the center cell (Height/2, Width/2).
	Starts []Position
	// Restricted placement levels, drained in order before the implicit full level.
	Masks []MaskSource
	// Log a progress line every ProgressEvery placements. Zero disables it.
	ProgressEvery int
	// Upper bound in bytes for grid, palette and mask buffers.
	// Exceeding it fails with ErrCodeAllocGrid, ErrCodeAllocPalette or ErrCodeAllocMask.
	MemoryBudget int64
}

func DefaultOptions() Options {
	return OptionsFromSize(128, 128)
}

// OptionsFromSize returns defaults for a w x h grid with the step derived
// from the cell count.
func OptionsFromSize(w, h int) Options {
	opt := Options{
		Width:         w,
		Height:        h,
		Order:         OrderShuffle,
		ProgressEvery: 1024,
		MemoryBudget:  DefaultMemoryBudget,
	}
	if w > 0 && h > 0 {
		opt.Step = StepForCells(w * h)
	}
	return opt
}

// Validate reports configuration errors before anything is allocated.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return Errorf(ErrCodeConfig, "grid dimensions must be positive, not %dx%d", o.Width, o.Height)
	}
	if int64(o.Width) > math.MaxInt32 || int64(o.Height) > math.MaxInt32 {
		return Errorf(ErrCodeConfig, "grid dimensions %dx%d too large", o.Width, o.Height)
	}
	if len(o.Palette) == 0 {
		if o.Step < 0 || o.Step > 256 {
			return Errorf(ErrCodeConfig, "step must be within [1, 256], not %d", o.Step)
		}
		if o.Order < OrderShuffle || o.Order > OrderBrightness {
			return Errorf(ErrCodeConfig, "unknown palette order %d", o.Order)
		}
	}
	if o.ProgressEvery < 0 {
		return Errorf(ErrCodeConfig, "progress interval must not be negative")
	}
	if o.MemoryBudget < 0 {
		return Errorf(ErrCodeConfig, "memory budget must not be negative")
	}
	return nil
}

// step resolves the zero value to the derived step.
func (o Options) step() int {
	if o.Step == 0 {
		return StepForCells(o.Width * o.Height)
	}
	return o.Step
}

func (o Options) paletteSize() int {
	if len(o.Palette) > 0 {
		return len(o.Palette)
	}
	return PaletteSize(o.step())
}

// checkBudget charges grid, palette and mask buffers against MemoryBudget
// in allocation order and names the first one that does not fit.
func (o Options) checkBudget() error {
	budget := o.MemoryBudget
	if budget == 0 {
		budget = DefaultMemoryBudget
	}
	cells := int64(o.Width) * int64(o.Height)
	charges := []struct {
		code  Code
		what  string
		count int64
		size  int64 // bytes per element
	}{
		{ErrCodeAllocGrid, "grid", cells, 5},
		{ErrCodeAllocPalette, "palette", int64(o.paletteSize()), 3},
		{ErrCodeAllocMask, "mask", cells, 1},
	}
	left := budget
	for _, c := range charges {
		// count*size may overflow int64 for the largest valid grids.
		if c.count > left/c.size {
			return Errorf(c.code, "%s buffer needs %d elements of %d bytes, budget %d exhausted", c.what, c.count, c.size, budget)
		}
		left -= c.count * c.size
	}
	return nil
}
