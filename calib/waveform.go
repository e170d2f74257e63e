package calib

import (
	"math"
	"math/cmplx"

	"github.com/hb9tf/radcal/frame"
	"github.com/hb9tf/radcal/peak"
	"github.com/hb9tf/radcal/spectrum"
)

// degenerateMagnitudeFloor is the smallest reference-pair magnitude the
// normalization will divide by.
const degenerateMagnitudeFloor = 1e-9

// Waveform estimates the phase/amplitude and frequency-offset matrices
// from a recording made with a corner reflector at the given reference
// distance.
//
// For every channel pair the chirps are averaged coherently and the
// reflector peak is located within a window around the bin the reference
// distance maps to. The phase/amplitude matrix is V[ref]/V[tx,rx], so
// multiplying a live measurement by its entry normalizes the channel to
// the reference channel. The frequency matrix converts each channel's
// sub-bin peak offset relative to the reference into a frequency-offset
// correction, 2*pi*(dbin/ref)*(fs/slope), the same mapping the upstream
// pipeline applies in reverse. Both reference cells are pinned to their
// exact identity values.
func Waveform(cube *frame.Cube, opts Options) (*ComplexMatrix, *RealMatrix, error) {
	geom := cube.Geometry
	acq := cube.Acquisition
	if err := opts.checkReference(geom); err != nil {
		return nil, nil, err
	}

	oversample := opts.Spectrum.Oversample
	if oversample < 1 {
		oversample = 1
	}
	expected := peak.BinFor(opts.ReferenceDistance, acq, oversample)

	// Per-pair reflector returns and sub-bin peak positions.
	values := NewComplexMatrix(geom)
	bins := NewRealMatrix(geom)
	err := forEachPair(geom, func(tx, rx int) error {
		profile := spectrum.Average(cube, tx, rx, opts.Spectrum)
		bin, v, err := peak.Search(profile, expected, opts.searchWindow(), opts.minSNRdB(), tx, rx)
		if err != nil {
			return err
		}
		values.Set(tx, rx, v)
		bins.Set(tx, rx, peak.Refine(profile, bin))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ref := values.At(opts.ReferenceTX, opts.ReferenceRX)
	if cmplx.Abs(ref) < degenerateMagnitudeFloor {
		return nil, nil, &DegenerateReferenceError{
			TX: opts.ReferenceTX, RX: opts.ReferenceRX, Magnitude: cmplx.Abs(ref),
		}
	}
	refBin := bins.At(opts.ReferenceTX, opts.ReferenceRX)

	phaseAmp := NewComplexMatrix(geom)
	freq := NewRealMatrix(geom)
	for tx := 0; tx < geom.TXCount; tx++ {
		for rx := 0; rx < geom.RXCount; rx++ {
			phaseAmp.Set(tx, rx, ref/values.At(tx, rx))
			dbin := (bins.At(tx, rx) - refBin) / float64(oversample)
			freq.Set(tx, rx, 2*math.Pi*(dbin/opts.ReferenceDistance)*(acq.SampleRate/acq.Slope))
		}
	}
	// The reference cell must hold the exact identity, not the result of
	// the floating-point division.
	phaseAmp.Set(opts.ReferenceTX, opts.ReferenceRX, complex(1, 0))
	freq.Set(opts.ReferenceTX, opts.ReferenceRX, 0)

	return phaseAmp, freq, nil
}
