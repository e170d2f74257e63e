// Package spectrum turns the sample dimension of a data cube into complex
// range profiles and averages them across chirps.
package spectrum

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/hb9tf/radcal/frame"
)

// Window selects the taper applied to a chirp before the FFT.
type Window int

const (
	// WindowNone applies no taper. This is the default: the calibration
	// targets (direct leakage, a corner reflector) are strong and isolated,
	// so spectral leakage from neighbors is not a concern and the
	// rectangular window keeps the peak amplitude unscaled.
	WindowNone Window = iota
	WindowHann
	WindowBlackman
)

// Options control the range transform.
type Options struct {
	Window Window
	// Oversample zero-pads each chirp to Oversample*SampleCount points
	// before the FFT, refining the bin granularity around a known target
	// range. Values below 1 are treated as 1.
	Oversample int
}

func (o Options) oversample() int {
	if o.Oversample < 1 {
		return 1
	}
	return o.Oversample
}

// Bins returns the length of a range profile produced with these options.
func (o Options) Bins(acq frame.Acquisition) int {
	return acq.SampleCount * o.oversample()
}

// coefficients returns the taper coefficients for n samples.
func (w Window) coefficients(n int) []float64 {
	coeff := make([]float64, n)
	for i := range coeff {
		switch w {
		case WindowHann:
			coeff[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
		case WindowBlackman:
			coeff[i] = 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1)) +
				0.08*math.Cos(4*math.Pi*float64(i)/float64(n-1))
		default:
			coeff[i] = 1.0
		}
	}
	return coeff
}

// Profile computes the range profile of a single chirp: taper, zero-pad,
// complex FFT over the sample axis. Coefficients are normalized by the raw
// sample count, so a constant offset of v across the chirp shows up in bin
// 0 as v and a unit-amplitude complex tone shows up in its bin with
// amplitude 1. Deterministic for identical input and options.
func Profile(cube *frame.Cube, tx, rx, chirp int, opts Options) []complex128 {
	ns := cube.Acquisition.SampleCount
	n := ns * opts.oversample()

	in := make([]complex128, n)
	coeff := opts.Window.coefficients(ns)
	for i, s := range cube.Chirp(tx, rx, chirp) {
		in[i] = s * complex(coeff[i], 0)
	}

	fft := fourier.NewCmplxFFT(n)
	out := fft.Coefficients(nil, in)
	norm := complex(1.0/float64(ns), 0)
	for i := range out {
		out[i] *= norm
	}
	return out
}

// Average computes the coherent (complex mean) range profile of a channel
// pair across all chirps of the cube. Leakage and a static reflector have
// near-zero Doppler, so their returns add in phase while noise averages
// down. Averaging a cube with duplicated chirps yields the same profile as
// the single original chirp.
func Average(cube *frame.Cube, tx, rx int, opts Options) []complex128 {
	nc := cube.Acquisition.ChirpCount
	sum := make([]complex128, opts.Bins(cube.Acquisition))
	for chirp := 0; chirp < nc; chirp++ {
		for i, v := range Profile(cube, tx, rx, chirp, opts) {
			sum[i] += v
		}
	}
	norm := complex(1.0/float64(nc), 0)
	for i := range sum {
		sum[i] *= norm
	}
	return sum
}
