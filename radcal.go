package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/hb9tf/radcal/calib"
	"github.com/hb9tf/radcal/config"
	"github.com/hb9tf/radcal/export"
	"github.com/hb9tf/radcal/frame"
	"github.com/hb9tf/radcal/spectrum"

	// Blind import support for sqlite3 used by sqlite.go.
	_ "github.com/mattn/go-sqlite3"
)

// Flags
var (
	input      = flag.String("input", "", "path to the raw frame recording to calibrate from (needs to be assigned!)")
	outputDir  = flag.String("outputDir", "", "directory to write the calibration files into (defaults to a 'calibration' directory next to the input)")
	mode       = flag.String("mode", "", "calibration mode (one of: coupling, waveform)")
	configFile = flag.String("config", "", "path to the calibration config file (overrides the geometry and chirp flags)")
	identifier = flag.String("id", "", "unique identifier of the calibration run (defaults to a random UUID)")

	txCount     = flag.Int("txCount", 12, "number of TX antennas of the array")
	rxCount     = flag.Int("rxCount", 16, "number of RX antennas of the array")
	sampleCount = flag.Int("samples", 256, "number of ADC samples per chirp")
	chirpCount  = flag.Int("chirpLoops", 16, "number of chirp loops per frame")

	refDistance  = flag.Float64("referenceDistance", 0, "known distance of the corner reflector in meters (waveform mode)")
	refTX        = flag.Int("referenceTX", 0, "TX index of the reference pair")
	refRX        = flag.Int("referenceRX", 0, "RX index of the reference pair")
	searchWindow = flag.Int("searchWindow", calib.DefaultSearchWindow, "half-width in bins of the reflector search window")
	minSNR       = flag.Float64("minSNR", calib.DefaultMinSNRdB, "SNR margin in dB a reflector peak must clear over the noise floor")
	oversample   = flag.Int("oversample", 1, "FFT zero-padding factor")
	leakWindow   = flag.Int("leakWindow", calib.DefaultLeakWindow, "number of near-zero bins searched for coupling leakage")
	window       = flag.String("window", "none", "FFT taper (one of: none, hann, blackman)")

	output = flag.String("output", "binary", "export mechanism to use (one of: binary, csv, sqlite, mysql)")

	// SQLite
	sqliteFile = flag.String("sqliteFile", "/tmp/radcal", "File path of the sqlite DB file to use.")

	// MySQL
	mysqlServer       = flag.String("mysqlServer", "127.0.0.1:3306", "MySQL TCP server endpoint to connect to (IP/DNS and port).")
	mysqlUser         = flag.String("mysqlUser", "", "MySQL DB user.")
	mysqlPasswordFile = flag.String("mysqlPasswordFile", "", "Path to the file containing the password for the MySQL user.")
	mysqlDBName       = flag.String("mysqlDBName", "radcal", "Name of the DB to use.")
)

func parseWindow(name string) spectrum.Window {
	switch strings.ToLower(name) {
	case "none", "":
		return spectrum.WindowNone
	case "hann":
		return spectrum.WindowHann
	case "blackman":
		return spectrum.WindowBlackman
	default:
		glog.Exitf("%q is not a supported window, pick one of: none, hann, blackman", name)
		return spectrum.WindowNone
	}
}

func main() {
	ctx := context.Background()
	// Set defaults for glog flags. Can be overridden via cmdline.
	flag.Set("logtostderr", "false")
	flag.Set("stderrthreshold", "WARNING")
	flag.Set("v", "1")
	// Parse flags globally.
	flag.Parse()

	if *identifier == "" {
		*identifier = uuid.NewString()
	}
	if *input == "" {
		glog.Exit("no input frame provided, set -input")
	}

	// Geometry and acquisition setup
	geom := frame.Geometry{TXCount: *txCount, RXCount: *rxCount}
	acq := frame.Acquisition{SampleCount: *sampleCount, ChirpCount: *chirpCount}
	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			glog.Exit(err)
		}
		geom = cfg.Geometry()
		acq = cfg.Acquisition()
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		glog.Exitf("unable to read input frame %q: %s", *input, err)
	}
	cube, err := frame.FromBytes(raw, geom, acq)
	if err != nil {
		glog.Exit(err)
	}

	opts := calib.Options{
		ReferenceDistance: *refDistance,
		ReferenceTX:       *refTX,
		ReferenceRX:       *refRX,
		SearchWindow:      *searchWindow,
		MinSNRdB:          *minSNR,
		LeakWindow:        *leakWindow,
		Spectrum: spectrum.Options{
			Window:     parseWindow(*window),
			Oversample: *oversample,
		},
	}

	// Run the estimators.
	res := &calib.Result{
		RunID:    *identifier,
		Source:   *input,
		Mode:     strings.ToLower(*mode),
		Geometry: geom,
		Start:    time.Now(),
	}
	switch res.Mode {
	case "coupling":
		glog.Infof("estimating coupling leakage for a %dx%d array from %q\n", geom.TXCount, geom.RXCount, *input)
		m, err := calib.Coupling(cube, opts)
		if err != nil {
			glog.Exit(err)
		}
		res.Coupling = m
	case "waveform":
		if *configFile == "" {
			glog.Exit("waveform mode needs the chirp parameters, set -config")
		}
		if *refDistance <= 0 {
			glog.Exit("waveform mode needs the distance of the corner reflector, set -referenceDistance")
		}
		glog.Infof("estimating phase/amplitude and frequency calibration for a %dx%d array from %q (reflector at %gm)\n",
			geom.TXCount, geom.RXCount, *input, *refDistance)
		phaseAmp, freq, err := calib.Waveform(cube, opts)
		if err != nil {
			glog.Exit(err)
		}
		res.PhaseAmp = phaseAmp
		res.Frequency = freq
	default:
		glog.Exitf("%q is not a supported calibration mode, pick one of: coupling, waveform", *mode)
	}
	res.End = time.Now()

	// Exporter setup
	var exporter export.Exporter
	switch strings.ToLower(*output) {
	case "binary":
		dir := *outputDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(*input), "calibration")
		}
		exporter = &export.Binary{Dir: dir}
	case "csv":
		exporter = &export.CSV{}
	case "sqlite":
		db, err := sql.Open("sqlite3", *sqliteFile)
		if err != nil {
			glog.Exitf("unable to open sqlite DB %q: %s", *sqliteFile, err)
		}
		exporter = &export.SQLite{DB: db}
	case "mysql":
		pass, err := os.ReadFile(*mysqlPasswordFile)
		if err != nil {
			glog.Exitf("unable to read MySQL password file %q: %s\n", *mysqlPasswordFile, err)
		}
		cfg := mysql.Config{
			User:   *mysqlUser,
			Passwd: strings.TrimSpace(string(pass)),
			Net:    "tcp",
			Addr:   *mysqlServer,
			DBName: *mysqlDBName,
		}
		db, err := sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			glog.Exitf("unable to open MySQL DB %q: %s", *mysqlServer, err)
		}
		db.SetConnMaxLifetime(3 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		exporter = &export.MySQL{DB: db}
	default:
		glog.Exitf("%q is not a supported export method, pick one of: binary, csv, sqlite, mysql", *output)
	}

	if err := exporter.Write(ctx, res); err != nil {
		glog.Exit(err)
	}
	glog.Infof("calibration run %s done in %s\n", res.RunID, res.End.Sub(res.Start))
	glog.Flush()
}
