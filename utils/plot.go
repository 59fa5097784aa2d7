package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveScoreHistogram plots how far each placed color was from its closest
// colored neighbor. Isolated placements (infinite score) are left out.
func SaveScoreHistogram(scores []float64, bins int, title, filename string) error {
	dists := make(plotter.Values, 0, len(scores))
	for _, s := range scores {
		if !math.IsInf(s, 0) && !math.IsNaN(s) {
			dists = append(dists, -s)
		}
	}
	if len(dists) == 0 {
		return fmt.Errorf("no neighbor-backed placements to plot")
	}
	if bins <= 0 {
		bins = 32
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance to nearest placed neighbor"
	p.Y.Label.Text = "Placements"

	h, err := plotter.NewHist(dists, bins)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}
