package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotAccuracy renders the prequential accuracy series (one point per
// processed record) to a PNG at path.
func plotAccuracy(path string, history []float64) error {
	p := plot.New()
	p.Title.Text = "Prequential accuracy"
	p.X.Label.Text = "record index"
	p.Y.Label.Text = "accuracy"
	p.Y.Min, p.Y.Max = 0, 1

	pts := make(plotter.XYs, len(history))
	for i, v := range history {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
