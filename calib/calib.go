// Package calib derives the correction matrices of a cascaded radar array
// from raw calibration recordings: coupling leakage, per-channel phase and
// amplitude mismatch, and per-channel frequency offset.
package calib

import (
	"fmt"
	"sync"
	"time"

	"github.com/hb9tf/radcal/frame"
	"github.com/hb9tf/radcal/spectrum"
)

// Default search parameters. The search half-width matches the original
// deployment's practice of tolerating roughly a meter of reflector
// placement error; the SNR margin rejects noise peaks without turning away
// a real corner reflector return.
const (
	DefaultSearchWindow = 4
	DefaultMinSNRdB     = 6.0
	DefaultLeakWindow   = 4
)

// Options configure a calibration run. The zero value of the reference
// pair selects the first transmit/receive antenna, the conventional
// normalization anchor.
type Options struct {
	// ReferenceDistance is the known distance of the corner reflector in
	// meters. Required for waveform calibration, unused for coupling.
	ReferenceDistance float64

	// ReferenceTX and ReferenceRX select the channel pair every other
	// channel is normalized against.
	ReferenceTX int
	ReferenceRX int

	// SearchWindow is the half-width in bins of the reflector search
	// around the expected bin. 0 means DefaultSearchWindow.
	SearchWindow int

	// MinSNRdB is the margin a reflector peak must clear over the
	// profile's noise floor. 0 means DefaultMinSNRdB; set it to a large
	// negative value to disable the check.
	MinSNRdB float64

	// LeakWindow is the number of near-zero-range bins searched for the
	// dominant leakage value. 0 means DefaultLeakWindow.
	LeakWindow int

	Spectrum spectrum.Options
}

func (o Options) searchWindow() int {
	if o.SearchWindow == 0 {
		return DefaultSearchWindow
	}
	return o.SearchWindow
}

func (o Options) minSNRdB() float64 {
	if o.MinSNRdB == 0 {
		return DefaultMinSNRdB
	}
	return o.MinSNRdB
}

func (o Options) leakWindow() int {
	if o.LeakWindow == 0 {
		return DefaultLeakWindow
	}
	return o.LeakWindow
}

func (o Options) checkReference(geom frame.Geometry) error {
	if o.ReferenceTX < 0 || o.ReferenceTX >= geom.TXCount || o.ReferenceRX < 0 || o.ReferenceRX >= geom.RXCount {
		return fmt.Errorf("reference pair (tx=%d, rx=%d) outside %dx%d array", o.ReferenceTX, o.ReferenceRX, geom.TXCount, geom.RXCount)
	}
	return nil
}

// DegenerateReferenceError is returned when the reference pair's measured
// return is too small to normalize against: every other entry would be a
// division by near-zero.
type DegenerateReferenceError struct {
	TX, RX    int
	Magnitude float64
}

func (e *DegenerateReferenceError) Error() string {
	return fmt.Sprintf("degenerate reference pair (tx=%d, rx=%d): peak magnitude %g too small to normalize against", e.TX, e.RX, e.Magnitude)
}

// Result is the outcome of one calibration run, handed to an exporter.
// Coupling is set in coupling mode; PhaseAmp and Frequency in waveform
// mode.
type Result struct {
	RunID    string
	Source   string
	Mode     string
	Geometry frame.Geometry

	Coupling  *ComplexMatrix
	PhaseAmp  *ComplexMatrix
	Frequency *RealMatrix

	Start time.Time
	End   time.Time
}

// forEachPair runs fn once per (tx, rx) channel pair, fanning out across
// goroutines. The pairs are independent: each writes only its own matrix
// cell, so the only synchronization is the final gather. The first error
// wins.
func forEachPair(geom frame.Geometry, fn func(tx, rx int) error) error {
	errs := make(chan error, geom.Pairs())
	var wg sync.WaitGroup
	for tx := 0; tx < geom.TXCount; tx++ {
		for rx := 0; rx < geom.RXCount; rx++ {
			wg.Add(1)
			go func(tx, rx int) {
				defer wg.Done()
				errs <- fn(tx, rx)
			}(tx, rx)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
