package export

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/hb9tf/radcal/calib"
)

// File names of the calibration artifacts consumed by the downstream
// beamforming pipeline.
const (
	CouplingFile  = "coupling_calibration.bin"
	PhaseAmpFile  = "phase_amp_calibration.bin"
	FrequencyFile = "frequency_calibration.bin"

	couplingContextFile = "coupling_cfg.json"
	waveformContextFile = "waveform_calib_cfg.json"
)

// Binary writes the calibration matrices in the raw layout the downstream
// pipeline reads, plus a JSON context file naming the artifacts:
//
//   - coupling: interleaved (real, imag) float32 pairs, row-major by (tx, rx)
//   - phase/amplitude: interleaved (real, imag) float64 pairs, same layout
//   - frequency: one float64 scalar per (tx, rx), row-major
//
// Each file is staged in memory and written whole, so a failed run never
// leaves a partially populated matrix behind.
type Binary struct {
	// Dir is the directory the calibration files are written into.
	Dir string
}

type contextInfo struct {
	NTX   int    `json:"ntx"`
	NRX   int    `json:"nrx"`
	RunID string `json:"run_id"`
	Data  any    `json:"data"`
}

func (b *Binary) Write(ctx context.Context, res *calib.Result) error {
	if err := os.MkdirAll(b.Dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory %q: %s", b.Dir, err)
	}

	info := contextInfo{
		NTX:   res.Geometry.TXCount,
		NRX:   res.Geometry.RXCount,
		RunID: res.RunID,
	}
	files := map[string][]byte{}
	switch {
	case res.Coupling != nil:
		files[CouplingFile] = encodeComplex32(res.Coupling)
		info.Data = CouplingFile
	case res.PhaseAmp != nil && res.Frequency != nil:
		files[PhaseAmpFile] = encodeComplex64(res.PhaseAmp)
		files[FrequencyFile] = encodeReal64(res.Frequency)
		info.Data = map[string]string{
			"phase":     PhaseAmpFile,
			"frequency": FrequencyFile,
		}
	default:
		return fmt.Errorf("result of run %q holds no complete matrix to export", res.RunID)
	}

	contextName := couplingContextFile
	if res.Coupling == nil {
		contextName = waveformContextFile
	}
	contextRaw, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal context file: %s", err)
	}
	files[contextName] = contextRaw

	for name, data := range files {
		path := filepath.Join(b.Dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("unable to write %q: %s", path, err)
		}
		glog.Infof("wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}

func encodeComplex32(m *calib.ComplexMatrix) []byte {
	buf := make([]byte, 0, len(m.Cells)*8)
	for _, v := range m.Cells {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(real(v))))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(imag(v))))
	}
	return buf
}

func encodeComplex64(m *calib.ComplexMatrix) []byte {
	buf := make([]byte, 0, len(m.Cells)*16)
	for _, v := range m.Cells {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(real(v)))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(imag(v)))
	}
	return buf
}

func encodeReal64(m *calib.RealMatrix) []byte {
	buf := make([]byte, 0, len(m.Cells)*8)
	for _, v := range m.Cells {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}
