package heatmap

import (
	"database/sql"
	"fmt"
	"image"
	"time"

	"github.com/hb9tf/radcal/calib"
	"github.com/hb9tf/radcal/frame"
)

const (
	// getRunsTmpl lists the stored calibration runs, newest first.
	getRunsTmpl = `SELECT
			RunID,
			Mode,
			Source,
			MIN(Start),
			MAX(End)
		FROM
			radcal
		GROUP BY
			RunID, Mode, Source
		ORDER BY
			MIN(Start) DESC;`
	getCellsTmpl = `SELECT
			TX,
			RX,
			Real,
			Imag
		FROM
			radcal
		WHERE
			RunID = ?
			AND Matrix = ?;`
)

type Run struct {
	RunID  string
	Mode   string
	Source string
	Start  time.Time
	End    time.Time
}

type Cell struct {
	TX   int
	RX   int
	Real float64
	Imag float64
}

// Runs lists the calibration runs stored in the DB.
func Runs(db *sql.DB) ([]Run, error) {
	statement, err := db.Prepare(getRunsTmpl)
	if err != nil {
		return nil, err
	}
	rows, err := statement.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var start, end int64
		if err := rows.Scan(&r.RunID, &r.Mode, &r.Source, &start, &end); err != nil {
			return nil, err
		}
		r.Start = time.Unix(0, start*int64(time.Millisecond))
		r.End = time.Unix(0, end*int64(time.Millisecond))
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Cells fetches the entries of one matrix of one run.
func Cells(db *sql.DB, runID, matrix string) ([]Cell, error) {
	statement, err := db.Prepare(getCellsTmpl)
	if err != nil {
		return nil, err
	}
	rows, err := statement.Query(runID, matrix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []Cell
	for rows.Next() {
		var c Cell
		if err := rows.Scan(&c.TX, &c.RX, &c.Real, &c.Imag); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// MatrixImage renders one stored matrix of a run as a heatmap. The matrix
// dimensions are recovered from the stored cell indices.
func MatrixImage(db *sql.DB, runID, matrix string) (*image.RGBA, error) {
	cells, err := Cells(db, runID, matrix)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("no %q cells stored for run %q", matrix, runID)
	}

	txCount, rxCount := 0, 0
	for _, c := range cells {
		if c.TX >= txCount {
			txCount = c.TX + 1
		}
		if c.RX >= rxCount {
			rxCount = c.RX + 1
		}
	}
	geom := frame.Geometry{TXCount: txCount, RXCount: rxCount}

	if matrix == "frequency" {
		m := calib.NewRealMatrix(geom)
		for _, c := range cells {
			m.Set(c.TX, c.RX, c.Real)
		}
		return Real(m), nil
	}
	m := calib.NewComplexMatrix(geom)
	for _, c := range cells {
		m.Set(c.TX, c.RX, complex(c.Real, c.Imag))
	}
	return Complex(m), nil
}
