package prettycolors

import (
	"fmt"
)

// MaskSource supplies the eligibility mask for one placement level.
type MaskSource interface {
	// Name identifies the level in logs and stats.
	Name() string
	// Mask returns w*h row-major flags; true means a placement is allowed.
	Mask(w, h int) ([]bool, error)
}

// FullMask allows every cell.
type FullMask struct{}

func (FullMask) Name() string { return "full" }

func (FullMask) Mask(w, h int) ([]bool, error) {
	ok := make([]bool, w*h)
	for i := range ok {
		ok[i] = true
	}
	return ok, nil
}

// CenterMask allows only the middle third block of the grid.
type CenterMask struct{}

func (CenterMask) Name() string { return "center" }

func (CenterMask) Mask(w, h int) ([]bool, error) {
	return RectMask{Row: h / 3, Col: w / 3, Rows: 2*h/3 - h/3, Cols: 2*w/3 - w/3}.Mask(w, h)
}

// RectMask allows the Rows x Cols block whose top-left corner is (Row, Col).
// Parts outside the grid are ignored.
type RectMask struct {
	Row, Col   int
	Rows, Cols int
}

func (m RectMask) Name() string {
	return fmt.Sprintf("rect(%d,%d %dx%d)", m.Row, m.Col, m.Rows, m.Cols)
}

func (m RectMask) check(w, h int) error {
	if m.Rows < 0 || m.Cols < 0 {
		return Errorf(ErrCodeConfig, "rect mask has negative size %dx%d", m.Rows, m.Cols)
	}
	return nil
}

func (m RectMask) Mask(w, h int) ([]bool, error) {
	if err := m.check(w, h); err != nil {
		return nil, err
	}
	ok := make([]bool, w*h)
	for r := max(m.Row, 0); r < min(m.Row+m.Rows, h); r++ {
		for c := max(m.Col, 0); c < min(m.Col+m.Cols, w); c++ {
			ok[r*w+c] = true
		}
	}
	return ok, nil
}

// TemplateMask is a decoded single-channel raster. Cells holds W*H
// eligibility flags (nonzero sample = eligible).
type TemplateMask struct {
	Path  string
	W, H  int
	Cells []bool
}

func (m *TemplateMask) Name() string { return "template:" + m.Path }

func (m *TemplateMask) check(w, h int) error {
	if m.W != w {
		return Errorf(ErrCodeTemplate, "%s: width must be %d, not %d", m.Path, w, m.W)
	}
	if m.H != h {
		return Errorf(ErrCodeTemplate, "%s: height must be %d, not %d", m.Path, h, m.H)
	}
	if len(m.Cells) != w*h {
		return Errorf(ErrCodeTemplate, "%s: holds %d samples, want %d", m.Path, len(m.Cells), w*h)
	}
	return nil
}

func (m *TemplateMask) Mask(w, h int) ([]bool, error) {
	if err := m.check(w, h); err != nil {
		return nil, err
	}
	ok := make([]bool, len(m.Cells))
	copy(ok, m.Cells)
	return ok, nil
}

// checkLevels reports the first source that cannot produce a w x h mask.
func checkLevels(levels []MaskSource, w, h int) error {
	for _, src := range levels {
		if c, ok := src.(interface{ check(w, h int) error }); ok {
			if err := c.check(w, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// Levels returns sources followed by FullMask, unless the last source is
// already a full mask.
func Levels(sources ...MaskSource) []MaskSource {
	out := make([]MaskSource, 0, len(sources)+1)
	out = append(out, sources...)
	if len(out) > 0 {
		if _, ok := out[len(out)-1].(FullMask); ok {
			return out
		}
	}
	return append(out, FullMask{})
}
