package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/trackctl/internal/sim"
)

var (
	refColor    = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	drivenColor = color.RGBA{R: 0, G: 160, B: 60, A: 255}
	errorColor  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	steerColor  = color.RGBA{R: 40, G: 80, B: 200, A: 255}
)

func xys(pts []Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}

// TrajectoryPNG plots the reference path against the driven trajectory.
// The image format follows the file extension (png, svg, pdf).
func TrajectoryPNG(filename string, ref, driven []Point) error {
	if len(ref) == 0 && len(driven) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Trajectory"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	if len(ref) > 0 {
		refLine, err := plotter.NewLine(xys(ref))
		if err != nil {
			return err
		}
		refLine.Color = refColor
		refLine.Width = vg.Points(1)
		refLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(refLine)
		p.Legend.Add("reference", refLine)
	}

	if len(driven) > 0 {
		drivenLine, err := plotter.NewLine(xys(driven))
		if err != nil {
			return err
		}
		drivenLine.Color = drivenColor
		drivenLine.Width = vg.Points(1.5)
		p.Add(drivenLine)
		p.Legend.Add("vehicle", drivenLine)
	}

	p.Legend.Top = true
	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ErrorsPNG plots lateral error and applied steering over time.
func ErrorsPNG(filename string, samples []sim.Sample) error {
	if len(samples) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	lat := make(plotter.XYs, len(samples))
	steer := make(plotter.XYs, len(samples))
	for i, s := range samples {
		lat[i] = plotter.XY{X: s.T, Y: s.LateralError}
		steer[i] = plotter.XY{X: s.T, Y: s.Steer}
	}

	p := plot.New()
	p.Title.Text = "Tracking error"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "e (m) / steer (rad)"
	p.Add(plotter.NewGrid())

	latLine, err := plotter.NewLine(lat)
	if err != nil {
		return err
	}
	latLine.Color = errorColor
	latLine.Width = vg.Points(1)

	steerLine, err := plotter.NewLine(steer)
	if err != nil {
		return err
	}
	steerLine.Color = steerColor
	steerLine.Width = vg.Points(1)

	p.Add(latLine, steerLine)
	p.Legend.Add("lateral error", latLine)
	p.Legend.Add("steer", steerLine)
	p.Legend.Top = true

	return save(p, 10*vg.Inch, 4*vg.Inch, filename)
}

func save(p *plot.Plot, w, h vg.Length, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	if err := p.Save(w, h, filename); err != nil {
		return fmt.Errorf("cannot write %s: %w", filename, err)
	}
	return nil
}
