package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/m-weigel/relorbit/internal/trajectory"
)

// PlotRadius renders r(tau) of a finished record as an ASCII chart,
// downsampled to at most width points.
func PlotRadius(rec *trajectory.Record, width, height int) string {
	return plotSeries(downsample(rec.Radii(), width), width, height, "r(tau)")
}

// PlotDrift renders the normalization drift over the run.
func PlotDrift(rec *trajectory.Record, width, height int) string {
	drifts := make([]float64, 0, rec.Len())
	it := rec.Iter()
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		drifts = append(drifts, s.Drift)
	}
	return plotSeries(downsample(drifts, width), width, height, "norm drift")
}

// PlotTimeDilation renders dt/dtau along the run, estimated by finite
// differences of the (tau, t) pairs.
func PlotTimeDilation(rec *trajectory.Record, width, height int) string {
	pairs := rec.TimeDilation()
	ratios := make([]float64, 0, len(pairs))
	for i := 1; i < len(pairs); i++ {
		dtau := pairs[i][0] - pairs[i-1][0]
		if dtau <= 0 {
			continue
		}
		ratios = append(ratios, (pairs[i][1]-pairs[i-1][1])/dtau)
	}
	return plotSeries(downsample(ratios, width), width, height, "dt/dtau")
}

// PlotOrbit draws the equatorial-plane path of a finished record on a
// Braille canvas, horizon included.
func PlotOrbit(rec *trajectory.Record, rs float64, width, height int) string {
	c := NewCanvas(width, height)
	cx, cy := width, height*2

	rmax := rs
	for _, r := range rec.Radii() {
		if r > rmax {
			rmax = r
		}
	}
	scale := rmax / (float64(height*4) * 0.45)
	if scale <= 0 {
		scale = 1
	}

	it := rec.Iter()
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		x, y, _ := trajectory.CartesianPoint(s)
		c.Set(cx+int(x/scale), cy-int(y/scale))
	}
	c.Mark(cx, cy, '+')
	return c.String()
}

func plotSeries(data []float64, width, height int, caption string) string {
	if len(data) < 2 {
		return "(not enough samples to plot)"
	}
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption))
}

func downsample(data []float64, n int) []float64 {
	if n <= 0 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*len(data)/n]
	}
	return out
}
