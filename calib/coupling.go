package calib

import (
	"github.com/hb9tf/radcal/frame"
	"github.com/hb9tf/radcal/peak"
	"github.com/hb9tf/radcal/spectrum"
)

// Coupling estimates the transmit-to-receive leakage matrix from a
// recording made with no target in reach of the sensor. Each entry is the
// dominant near-zero-range value of the pair's coherently averaged range
// profile. The entries are absolute measurements: this matrix is
// subtracted from live data downstream, so no reference normalization is
// applied.
func Coupling(cube *frame.Cube, opts Options) (*ComplexMatrix, error) {
	m := NewComplexMatrix(cube.Geometry)
	err := forEachPair(cube.Geometry, func(tx, rx int) error {
		profile := spectrum.Average(cube, tx, rx, opts.Spectrum)
		_, leak := peak.NearZero(profile, opts.leakWindow())
		m.Set(tx, rx, leak)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
