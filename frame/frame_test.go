package frame

import (
	"encoding/binary"
	"errors"
	"testing"
)

func testGeometry() Geometry {
	return Geometry{TXCount: 2, RXCount: 2}
}

func testAcquisition() Acquisition {
	return Acquisition{SampleCount: 4, ChirpCount: 2}
}

// rawFrame builds a little-endian int16 I/Q buffer where every sample
// encodes its own flat index: I = index, Q = -index.
func rawFrame(geom Geometry, acq Acquisition) []byte {
	n := geom.Pairs() * acq.ChirpCount * acq.SampleCount
	buf := make([]byte, 0, n*elementSize)
	for i := 0; i < n; i++ {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(i)))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(-i)))
	}
	return buf
}

func TestFromBytes(t *testing.T) {
	geom := testGeometry()
	acq := testAcquisition()
	cube, err := FromBytes(rawFrame(geom, acq), geom, acq)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	idx := 0
	for tx := 0; tx < geom.TXCount; tx++ {
		for rx := 0; rx < geom.RXCount; rx++ {
			for chirp := 0; chirp < acq.ChirpCount; chirp++ {
				for sample := 0; sample < acq.SampleCount; sample++ {
					want := complex(float64(idx), float64(-idx))
					if got := cube.At(tx, rx, chirp, sample); got != want {
						t.Fatalf("At(%d, %d, %d, %d) = %v, want %v", tx, rx, chirp, sample, got, want)
					}
					idx++
				}
			}
		}
	}
}

func TestFromBytesMalformed(t *testing.T) {
	geom := testGeometry()
	acq := testAcquisition()
	buf := rawFrame(geom, acq)

	for _, tc := range []struct {
		name string
		buf  []byte
	}{
		{"one byte short", buf[:len(buf)-1]},
		{"one element long", append(append([]byte{}, buf...), 0, 0, 0, 0)},
		{"empty", nil},
	} {
		_, err := FromBytes(tc.buf, geom, acq)
		var malformed *MalformedFrameError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: FromBytes err = %v, want *MalformedFrameError", tc.name, err)
			continue
		}
		if malformed.WantBytes != len(buf) || malformed.GotBytes != len(tc.buf) {
			t.Errorf("%s: error = %+v, want WantBytes=%d GotBytes=%d", tc.name, malformed, len(buf), len(tc.buf))
		}
	}
}

func TestNewCubeDimensionMismatch(t *testing.T) {
	geom := testGeometry()
	acq := testAcquisition()
	samples := make([]complex128, geom.Pairs()*acq.ChirpCount*acq.SampleCount-1)
	var malformed *MalformedFrameError
	if _, err := NewCube(geom, acq, samples); !errors.As(err, &malformed) {
		t.Fatalf("NewCube err = %v, want *MalformedFrameError", err)
	}
}

func TestChirp(t *testing.T) {
	geom := testGeometry()
	acq := testAcquisition()
	cube, err := FromBytes(rawFrame(geom, acq), geom, acq)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}

	chirp := cube.Chirp(1, 0, 1)
	if len(chirp) != acq.SampleCount {
		t.Fatalf("len(Chirp) = %d, want %d", len(chirp), acq.SampleCount)
	}
	for sample, got := range chirp {
		if want := cube.At(1, 0, 1, sample); got != want {
			t.Errorf("Chirp(1, 0, 1)[%d] = %v, want %v", sample, got, want)
		}
	}
}
