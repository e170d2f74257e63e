// Package config reads the calibration configuration file describing the
// array geometry and the chirp parameters of a recording. The keys match
// the configuration the radar's acquisition tooling emits.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hb9tf/radcal/frame"
)

type Calibration struct {
	TXCount     int `yaml:"ntx"`
	RXCount     int `yaml:"nrx"`
	ChirpCount  int `yaml:"numChirpLoops"`
	SampleCount int `yaml:"numAdcSamples"`

	FrequencySlopeMHzUs   float64 `yaml:"frequencySlope_Mhz_us"`
	SamplingFrequencyKsps float64 `yaml:"adcSamplingFrequency_ksps"`
	StartFrequencyGHz     float64 `yaml:"startFrequency_Ghz"`
}

// Load reads and parses a calibration configuration file.
func Load(path string) (*Calibration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read calibration config %q: %s", path, err)
	}
	c := &Calibration{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("unable to parse calibration config %q: %s", path, err)
	}
	return c, nil
}

func (c *Calibration) Geometry() frame.Geometry {
	return frame.Geometry{
		TXCount: c.TXCount,
		RXCount: c.RXCount,
	}
}

// Acquisition converts the config's field units (MHz/us, ksps, GHz) into
// the SI units the estimators work in.
func (c *Calibration) Acquisition() frame.Acquisition {
	return frame.Acquisition{
		SampleCount: c.SampleCount,
		ChirpCount:  c.ChirpCount,
		SampleRate:  c.SamplingFrequencyKsps * 1e3,
		Slope:       c.FrequencySlopeMHzUs * 1e12,
		StartFreq:   c.StartFrequencyGHz * 1e9,
	}
}
