// Package heatmap renders a calibration matrix as a labeled magnitude
// heatmap for quick visual inspection of a run.
package heatmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/cmplx"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/hb9tf/radcal/calib"
)

var (
	// Colors defining the gradient in the heatmap. The higher the index, the warmer.
	gradient = []color.RGBA{
		{0, 0, 0, 255},       // black
		{0, 0, 255, 255},     // blue
		{0, 255, 255, 255},   // cyan
		{0, 255, 0, 255},     // green
		{255, 255, 0, 255},   // yellow
		{255, 0, 0, 255},     // red
		{255, 255, 255, 255}, // white
	}

	labelColor      = color.RGBA{0, 0, 0, 255}
	backgroundColor = color.RGBA{255, 255, 255, 255}
)

const (
	cellSize   = 48 // pixels
	marginLeft = 48 // pixels
	marginTop  = 20 // pixels
)

// Complex renders the magnitudes of a complex calibration matrix.
func Complex(m *calib.ComplexMatrix) *image.RGBA {
	vals := make([]float64, len(m.Cells))
	for i, v := range m.Cells {
		vals[i] = cmplx.Abs(v)
	}
	return render(m.TXCount, m.RXCount, vals)
}

// Real renders the absolute values of a real calibration matrix.
func Real(m *calib.RealMatrix) *image.RGBA {
	vals := make([]float64, len(m.Cells))
	for i, v := range m.Cells {
		vals[i] = math.Abs(v)
	}
	return render(m.TXCount, m.RXCount, vals)
}

func render(txCount, rxCount int, vals []float64) *image.RGBA {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, marginLeft+rxCount*cellSize, marginTop+txCount*cellSize))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	for tx := 0; tx < txCount; tx++ {
		for rx := 0; rx < rxCount; rx++ {
			lvl := 0.0
			if hi > lo {
				lvl = (vals[tx*rxCount+rx] - lo) / (hi - lo)
			}
			cell := image.Rect(
				marginLeft+rx*cellSize, marginTop+tx*cellSize,
				marginLeft+(rx+1)*cellSize, marginTop+(tx+1)*cellSize,
			)
			draw.Draw(canvas, cell, &image.Uniform{gradientColor(lvl)}, image.Point{}, draw.Src)
		}
	}

	// Axis labels: rx across the top, tx down the left.
	for rx := 0; rx < rxCount; rx++ {
		drawLabel(canvas, marginLeft+rx*cellSize+4, marginTop-6, fmt.Sprintf("rx%d", rx))
	}
	for tx := 0; tx < txCount; tx++ {
		drawLabel(canvas, 4, marginTop+tx*cellSize+cellSize/2, fmt.Sprintf("tx%d", tx))
	}

	return canvas
}

// gradientColor maps a level in [0, 1] onto the gradient, interpolating
// between the two nearest stops.
func gradientColor(lvl float64) color.RGBA {
	if lvl <= 0 {
		return gradient[0]
	}
	if lvl >= 1 {
		return gradient[len(gradient)-1]
	}
	pos := lvl * float64(len(gradient)-1)
	i := int(pos)
	fract := pos - float64(i)
	a, b := gradient[i], gradient[i+1]
	return color.RGBA{
		uint8(float64(a.R) + (float64(b.R)-float64(a.R))*fract),
		uint8(float64(a.G) + (float64(b.G)-float64(a.G))*fract),
		uint8(float64(a.B) + (float64(b.B)-float64(a.B))*fract),
		uint8(float64(a.A) + (float64(b.A)-float64(a.A))*fract),
	}
}

func drawLabel(canvas *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
}
