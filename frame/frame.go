// Package frame models the raw data cube recorded by a cascaded radar
// array: complex ADC samples addressed by (tx, rx, chirp, sample).
package frame

import (
	"encoding/binary"
	"fmt"
)

// elementSize is the on-disk size of one complex sample: int16 I followed
// by int16 Q, as produced by the upstream frame repacker.
const elementSize = 4

// Geometry describes the antenna array: how many transmit and receive
// elements it has. The (tx, rx) index order of every matrix produced by
// this module follows the physical antenna numbering of the array.
type Geometry struct {
	TXCount int
	RXCount int
}

// Pairs returns the number of (tx, rx) channel pairs.
func (g Geometry) Pairs() int {
	return g.TXCount * g.RXCount
}

// Acquisition holds the chirp parameters of the recording. They are only
// used to map a physical reference distance onto a range bin and to turn a
// bin offset back into a frequency offset.
type Acquisition struct {
	SampleCount int
	ChirpCount  int
	SampleRate  float64 // Hz
	Slope       float64 // chirp slope in Hz/s
	StartFreq   float64 // Hz
}

// MalformedFrameError is returned when a raw buffer cannot be reshaped
// into the cube described by the geometry and acquisition parameters.
type MalformedFrameError struct {
	WantBytes int
	GotBytes  int
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame: want %d bytes for cube, got %d", e.WantBytes, e.GotBytes)
}

// Cube is a read-only view of one recorded frame. It is never mutated
// after construction, so estimators may share it across goroutines.
type Cube struct {
	Geometry    Geometry
	Acquisition Acquisition

	samples []complex128
}

// NewCube builds a cube from complex samples laid out row-major by
// (tx, rx, chirp, sample).
func NewCube(geom Geometry, acq Acquisition, samples []complex128) (*Cube, error) {
	want := geom.Pairs() * acq.ChirpCount * acq.SampleCount
	if len(samples) != want {
		return nil, &MalformedFrameError{WantBytes: want * elementSize, GotBytes: len(samples) * elementSize}
	}
	return &Cube{Geometry: geom, Acquisition: acq, samples: samples}, nil
}

// FromBytes reshapes a raw frame buffer into a cube. The buffer holds
// little-endian int16 I/Q pairs, row-major by (tx, rx, chirp, sample).
// The buffer length must match the cube dimensions exactly; anything else
// is a *MalformedFrameError, never a silent truncation.
func FromBytes(buf []byte, geom Geometry, acq Acquisition) (*Cube, error) {
	want := geom.Pairs() * acq.ChirpCount * acq.SampleCount * elementSize
	if len(buf) != want {
		return nil, &MalformedFrameError{WantBytes: want, GotBytes: len(buf)}
	}
	samples := make([]complex128, len(buf)/elementSize)
	for i := range samples {
		re := int16(binary.LittleEndian.Uint16(buf[i*elementSize:]))
		im := int16(binary.LittleEndian.Uint16(buf[i*elementSize+2:]))
		samples[i] = complex(float64(re), float64(im))
	}
	return &Cube{Geometry: geom, Acquisition: acq, samples: samples}, nil
}

// At returns the sample at (tx, rx, chirp, sample).
func (c *Cube) At(tx, rx, chirp, sample int) complex128 {
	return c.samples[c.index(tx, rx, chirp, sample)]
}

// Chirp returns the sample sequence of one chirp of one channel pair.
// The returned slice aliases the cube and must not be modified.
func (c *Cube) Chirp(tx, rx, chirp int) []complex128 {
	start := c.index(tx, rx, chirp, 0)
	return c.samples[start : start+c.Acquisition.SampleCount]
}

func (c *Cube) index(tx, rx, chirp, sample int) int {
	ns := c.Acquisition.SampleCount
	nc := c.Acquisition.ChirpCount
	return ((tx*c.Geometry.RXCount+rx)*nc+chirp)*ns + sample
}
