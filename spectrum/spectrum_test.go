package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/hb9tf/radcal/frame"
)

// makeCube fills a cube through a per-sample generator.
func makeCube(t *testing.T, geom frame.Geometry, acq frame.Acquisition, gen func(tx, rx, chirp, sample int) complex128) *frame.Cube {
	t.Helper()
	samples := make([]complex128, 0, geom.Pairs()*acq.ChirpCount*acq.SampleCount)
	for tx := 0; tx < geom.TXCount; tx++ {
		for rx := 0; rx < geom.RXCount; rx++ {
			for chirp := 0; chirp < acq.ChirpCount; chirp++ {
				for sample := 0; sample < acq.SampleCount; sample++ {
					samples = append(samples, gen(tx, rx, chirp, sample))
				}
			}
		}
	}
	cube, err := frame.NewCube(geom, acq, samples)
	if err != nil {
		t.Fatalf("NewCube: %v", err)
	}
	return cube
}

// tone generates a unit-spaced complex exponential landing in an integer
// range bin.
func tone(bin, sampleCount int, gain complex128) func(int) complex128 {
	return func(sample int) complex128 {
		phase := 2 * math.Pi * float64(bin) * float64(sample) / float64(sampleCount)
		return gain * cmplx.Exp(complex(0, phase))
	}
}

func TestProfileDCOffset(t *testing.T) {
	geom := frame.Geometry{TXCount: 1, RXCount: 1}
	acq := frame.Acquisition{SampleCount: 64, ChirpCount: 1}
	dc := complex(0.5, -0.25)
	cube := makeCube(t, geom, acq, func(tx, rx, chirp, sample int) complex128 { return dc })

	profile := Profile(cube, 0, 0, 0, Options{})
	if len(profile) != acq.SampleCount {
		t.Fatalf("len(profile) = %d, want %d", len(profile), acq.SampleCount)
	}
	if d := cmplx.Abs(profile[0] - dc); d > 1e-12 {
		t.Errorf("bin 0 = %v, want %v (delta %g)", profile[0], dc, d)
	}
	for i := 1; i < len(profile); i++ {
		if cmplx.Abs(profile[i]) > 1e-12 {
			t.Errorf("bin %d = %v, want ~0", i, profile[i])
		}
	}
}

func TestProfileTone(t *testing.T) {
	geom := frame.Geometry{TXCount: 1, RXCount: 1}
	acq := frame.Acquisition{SampleCount: 128, ChirpCount: 1}
	gain := complex(0.8, 0.3)
	const bin = 17
	gen := tone(bin, acq.SampleCount, gain)
	cube := makeCube(t, geom, acq, func(tx, rx, chirp, sample int) complex128 { return gen(sample) })

	profile := Profile(cube, 0, 0, 0, Options{})
	if d := cmplx.Abs(profile[bin] - gain); d > 1e-9 {
		t.Errorf("bin %d = %v, want %v (delta %g)", bin, profile[bin], gain, d)
	}
}

func TestProfileOversample(t *testing.T) {
	geom := frame.Geometry{TXCount: 1, RXCount: 1}
	acq := frame.Acquisition{SampleCount: 64, ChirpCount: 1}
	gain := complex(1, 0)
	const bin = 5
	gen := tone(bin, acq.SampleCount, gain)
	cube := makeCube(t, geom, acq, func(tx, rx, chirp, sample int) complex128 { return gen(sample) })

	opts := Options{Oversample: 4}
	if got, want := opts.Bins(acq), 256; got != want {
		t.Fatalf("Bins = %d, want %d", got, want)
	}
	profile := Profile(cube, 0, 0, 0, opts)
	if d := cmplx.Abs(profile[bin*4] - gain); d > 1e-9 {
		t.Errorf("bin %d = %v, want %v (delta %g)", bin*4, profile[bin*4], gain, d)
	}
}

func TestAverageIdempotentUnderDuplication(t *testing.T) {
	geom := frame.Geometry{TXCount: 1, RXCount: 1}
	gen := tone(9, 64, complex(0.7, -0.2))

	single := makeCube(t, geom, frame.Acquisition{SampleCount: 64, ChirpCount: 1},
		func(tx, rx, chirp, sample int) complex128 { return gen(sample) })
	duplicated := makeCube(t, geom, frame.Acquisition{SampleCount: 64, ChirpCount: 2},
		func(tx, rx, chirp, sample int) complex128 { return gen(sample) })

	a := Average(single, 0, 0, Options{})
	b := Average(duplicated, 0, 0, Options{})
	for i := range a {
		if d := cmplx.Abs(a[i] - b[i]); d > 1e-12 {
			t.Fatalf("bin %d: single-chirp %v vs duplicated %v (delta %g)", i, a[i], b[i], d)
		}
	}
}

func TestWindowCoefficients(t *testing.T) {
	for _, tc := range []struct {
		window Window
		mid    float64
	}{
		{WindowNone, 1.0},
		{WindowHann, 1.0},
		{WindowBlackman, 1.0},
	} {
		coeff := tc.window.coefficients(65)
		if len(coeff) != 65 {
			t.Fatalf("window %d: len = %d, want 65", tc.window, len(coeff))
		}
		if d := math.Abs(coeff[32] - tc.mid); d > 1e-12 {
			t.Errorf("window %d: midpoint = %g, want %g", tc.window, coeff[32], tc.mid)
		}
		for i, c := range coeff {
			if c < -1e-12 || c > 1+1e-12 {
				t.Errorf("window %d: coefficient %d = %g out of [0, 1]", tc.window, i, c)
			}
		}
	}
}
