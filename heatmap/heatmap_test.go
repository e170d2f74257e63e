package heatmap

import (
	"image/color"
	"testing"

	"github.com/hb9tf/radcal/calib"
	"github.com/hb9tf/radcal/frame"
)

func TestComplexImageSize(t *testing.T) {
	m := calib.NewComplexMatrix(frame.Geometry{TXCount: 3, RXCount: 4})
	for i := range m.Cells {
		m.Cells[i] = complex(float64(i), 0)
	}
	img := Complex(m)
	bounds := img.Bounds()
	if bounds.Dx() != marginLeft+4*cellSize || bounds.Dy() != marginTop+3*cellSize {
		t.Fatalf("image bounds = %v, want %dx%d", bounds, marginLeft+4*cellSize, marginTop+3*cellSize)
	}
}

func TestGradientColorEndpoints(t *testing.T) {
	if got := gradientColor(0); got != gradient[0] {
		t.Errorf("gradientColor(0) = %v, want %v", got, gradient[0])
	}
	if got := gradientColor(1); got != gradient[len(gradient)-1] {
		t.Errorf("gradientColor(1) = %v, want %v", got, gradient[len(gradient)-1])
	}
	// Halfway between two stops the channels interpolate.
	mid := gradientColor(0.5 / float64(len(gradient)-1))
	want := color.RGBA{0, 0, 127, 255}
	if mid != want {
		t.Errorf("gradientColor(mid) = %v, want %v", mid, want)
	}
}

func TestRealImageUniformMatrix(t *testing.T) {
	// A constant matrix has no dynamic range; rendering must not divide
	// by zero and paints every cell with the coldest color.
	m := calib.NewRealMatrix(frame.Geometry{TXCount: 2, RXCount: 2})
	for i := range m.Cells {
		m.Cells[i] = 1.0
	}
	img := Real(m)
	if got := img.RGBAAt(marginLeft+cellSize/2, marginTop+cellSize/2); got != gradient[0] {
		t.Errorf("uniform matrix cell color = %v, want %v", got, gradient[0])
	}
}
