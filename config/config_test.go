package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `ntx: 12
nrx: 16
numChirpLoops: 16
numAdcSamples: 256
frequencySlope_Mhz_us: 79.0
adcSamplingFrequency_ksps: 8000
startFrequency_Ghz: 77.0
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	geom := cfg.Geometry()
	if geom.TXCount != 12 || geom.RXCount != 16 {
		t.Errorf("Geometry = %+v, want 12x16", geom)
	}

	acq := cfg.Acquisition()
	if acq.SampleCount != 256 || acq.ChirpCount != 16 {
		t.Errorf("Acquisition counts = %+v, want 256 samples, 16 chirps", acq)
	}
	if math.Abs(acq.SampleRate-8e6) > 1 {
		t.Errorf("SampleRate = %g, want 8e6 Hz", acq.SampleRate)
	}
	if math.Abs(acq.Slope-79e12) > 1e6 {
		t.Errorf("Slope = %g, want 79e12 Hz/s", acq.Slope)
	}
	if math.Abs(acq.StartFreq-77e9) > 1 {
		t.Errorf("StartFreq = %g, want 77e9 Hz", acq.StartFreq)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	if err := os.WriteFile(path, []byte("ntx: [not a number"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of invalid YAML succeeded, want error")
	}
}
