// Package peak locates calibration targets in range profiles: the corner
// reflector near its expected bin, or direct antenna leakage near bin 0.
package peak

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/hb9tf/radcal/frame"
)

// speedOfLight in m/s.
const speedOfLight = 299792458.0

// TargetNotFoundError is returned when the expected-bin search cannot find
// a credible reflector return on a channel.
type TargetNotFoundError struct {
	TX, RX int
	Bin    int
	SNRdB  float64
	Reason string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target not found on channel (tx=%d, rx=%d) around bin %d: %s (SNR %.1f dB)",
		e.TX, e.RX, e.Bin, e.Reason, e.SNRdB)
}

// BinFor maps a physical target distance onto the range bin it lands in,
// given the acquisition parameters and the oversampling factor of the
// profile: round(2*d*slope*ns*oversample / (c*fs)).
func BinFor(distance float64, acq frame.Acquisition, oversample int) int {
	if oversample < 1 {
		oversample = 1
	}
	n := float64(acq.SampleCount * oversample)
	return int(math.Round(2 * distance * acq.Slope * n / (speedOfLight * acq.SampleRate)))
}

// Search finds the magnitude peak within halfWidth bins of the expected
// bin and checks it against the profile's noise floor (median magnitude).
// tx and rx only identify the channel in the returned error.
func Search(profile []complex128, expected, halfWidth int, minSNRdB float64, tx, rx int) (int, complex128, error) {
	lo := expected - halfWidth
	hi := expected + halfWidth
	if lo < 0 || hi >= len(profile) {
		return 0, 0, &TargetNotFoundError{
			TX: tx, RX: rx, Bin: expected,
			Reason: fmt.Sprintf("search window [%d, %d] outside profile of %d bins", lo, hi, len(profile)),
		}
	}

	best := lo
	bestMag := cmplx.Abs(profile[lo])
	for i := lo + 1; i <= hi; i++ {
		if m := cmplx.Abs(profile[i]); m > bestMag {
			best = i
			bestMag = m
		}
	}
	snr := math.Inf(1)
	if floor := noiseFloor(profile); floor > 0 {
		snr = 20 * math.Log10(bestMag/floor)
	}
	if snr < minSNRdB {
		return 0, 0, &TargetNotFoundError{
			TX: tx, RX: rx, Bin: expected, SNRdB: snr,
			Reason: fmt.Sprintf("peak at bin %d below SNR threshold of %.1f dB", best, minSNRdB),
		}
	}
	return best, profile[best], nil
}

// NearZero returns the dominant leakage bin and its value within the first
// window bins of the profile. The window is identical for every channel
// pair so the resulting matrix entries are comparable.
func NearZero(profile []complex128, window int) (int, complex128) {
	if window < 1 {
		window = 1
	}
	if window > len(profile) {
		window = len(profile)
	}
	best := 0
	bestMag := cmplx.Abs(profile[0])
	for i := 1; i < window; i++ {
		if m := cmplx.Abs(profile[i]); m > bestMag {
			best = i
			bestMag = m
		}
	}
	return best, profile[best]
}

// Refine sharpens a peak's bin index to sub-bin precision by parabolic
// interpolation over the magnitudes of the peak and its two neighbors.
func Refine(profile []complex128, bin int) float64 {
	if bin <= 0 || bin >= len(profile)-1 {
		return float64(bin)
	}
	alpha := cmplx.Abs(profile[bin-1])
	beta := cmplx.Abs(profile[bin])
	gamma := cmplx.Abs(profile[bin+1])
	den := alpha - 2*beta + gamma
	if den == 0 {
		return float64(bin)
	}
	return float64(bin) + 0.5*(alpha-gamma)/den
}

// noiseFloor estimates the profile's noise level as the median magnitude,
// which the few bins holding the target barely move.
func noiseFloor(profile []complex128) float64 {
	mags := make([]float64, len(profile))
	for i, v := range profile {
		mags[i] = cmplx.Abs(v)
	}
	sort.Float64s(mags)
	return mags[len(mags)/2]
}
