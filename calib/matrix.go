package calib

import "github.com/hb9tf/radcal/frame"

// ComplexMatrix is a dense TXCount x RXCount matrix of complex calibration
// values, row-major by (tx, rx). Immutable once its estimator returns it.
type ComplexMatrix struct {
	TXCount int
	RXCount int
	Cells   []complex128
}

func NewComplexMatrix(geom frame.Geometry) *ComplexMatrix {
	return &ComplexMatrix{
		TXCount: geom.TXCount,
		RXCount: geom.RXCount,
		Cells:   make([]complex128, geom.Pairs()),
	}
}

func (m *ComplexMatrix) At(tx, rx int) complex128 {
	return m.Cells[tx*m.RXCount+rx]
}

func (m *ComplexMatrix) Set(tx, rx int, v complex128) {
	m.Cells[tx*m.RXCount+rx] = v
}

// RealMatrix is the real-valued counterpart, used for the frequency-offset
// calibration.
type RealMatrix struct {
	TXCount int
	RXCount int
	Cells   []float64
}

func NewRealMatrix(geom frame.Geometry) *RealMatrix {
	return &RealMatrix{
		TXCount: geom.TXCount,
		RXCount: geom.RXCount,
		Cells:   make([]float64, geom.Pairs()),
	}
}

func (m *RealMatrix) At(tx, rx int) float64 {
	return m.Cells[tx*m.RXCount+rx]
}

func (m *RealMatrix) Set(tx, rx int, v float64) {
	m.Cells[tx*m.RXCount+rx] = v
}
