package main

/*
This application renders calibration matrices stored by radcal as
heatmap images.

It currently only supports runs exported into sqlite.
*/

import (
	"database/sql"
	"flag"
	"image/png"
	"os"

	"github.com/golang/glog"

	"github.com/hb9tf/radcal/heatmap"

	// Blind import support for sqlite3.
	_ "github.com/mattn/go-sqlite3"
)

// Flags
var (
	sqliteFile = flag.String("sqliteFile", "/tmp/radcal", "File path of the sqlite DB file to use.")
	runID      = flag.String("runID", "", "Identifier of the calibration run to render (empty lists the stored runs).")
	matrix     = flag.String("matrix", "", "Matrix to render (one of: coupling, phase_amp, frequency).")
	imgPath    = flag.String("imgPath", "/tmp/radcal.png", "Path where the rendered image should be written to.")
)

func main() {
	// Set defaults for glog flags. Can be overridden via cmdline.
	flag.Set("logtostderr", "true")
	// Parse flags globally.
	flag.Parse()

	db, err := sql.Open("sqlite3", *sqliteFile)
	if err != nil {
		glog.Exitf("unable to open sqlite DB %q: %s", *sqliteFile, err)
	}
	defer db.Close()

	if *runID == "" {
		runs, err := heatmap.Runs(db)
		if err != nil {
			glog.Exitf("unable to list runs: %s", err)
		}
		for _, r := range runs {
			glog.Infof("%s  %-8s  %s  (%s)\n", r.RunID, r.Mode, r.Source, r.Start.Format("2006-01-02T15:04:05"))
		}
		glog.Exit("no run selected, set -runID")
	}

	img, err := heatmap.MatrixImage(db, *runID, *matrix)
	if err != nil {
		glog.Exitf("unable to render matrix: %s", err)
	}

	out, err := os.Create(*imgPath)
	if err != nil {
		glog.Exitf("unable to create image file %q: %s", *imgPath, err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		glog.Exitf("unable to encode image: %s", err)
	}
	glog.Infof("rendered %s matrix of run %s to %s\n", *matrix, *runID, *imgPath)
	glog.Flush()
}
