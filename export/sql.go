package export

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang/glog"

	"github.com/hb9tf/radcal/calib"
)

const (
	sqlCreateTableTmpl = `CREATE TABLE IF NOT EXISTS radcal (
		"ID"      INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"RunID"   TEXT NOT NULL,
		"Source"  TEXT NOT NULL,
		"Mode"    TEXT NOT NULL,
		"Matrix"  TEXT NOT NULL,
		"TX"      INTEGER,
		"RX"      INTEGER,
		"Real"    REAL,
		"Imag"    REAL,
		"Start"   INTEGER,
		"End"     INTEGER
	);`
	sqlInsertCellTmpl = `INSERT INTO radcal (
		RunID,
		Source,
		Mode,
		Matrix,
		TX,
		RX,
		Real,
		Imag,
		Start,
		End
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
)

type SQL struct {
	DB *sql.DB
}

func (s *SQL) Write(ctx context.Context, res *calib.Result) error {
	if err := sqlCreateTableIfNotExists(s.DB); err != nil {
		return fmt.Errorf("unable to create table: %s", err)
	}

	counts := map[string]int{
		"error":   0,
		"success": 0,
		"total":   0,
	}
	for _, c := range cells(res) {
		counts["total"] += 1
		if err := sqlInsertCell(s.DB, res, c); err != nil {
			counts["error"] += 1
			glog.Warningf("error storing calibration cell in DB: %s\n", err)
			continue
		}
		counts["success"] += 1
	}
	glog.Infof("Calibration export counts: %+v\n", counts)
	if counts["error"] > 0 {
		return fmt.Errorf("failed to store %d of %d calibration cells", counts["error"], counts["total"])
	}

	return nil
}

func sqlCreateTableIfNotExists(db *sql.DB) error {
	statement, err := db.Prepare(sqlCreateTableTmpl)
	if err != nil {
		return err
	}
	if _, err := statement.Exec(); err != nil {
		return err
	}

	return nil
}

func sqlInsertCell(db *sql.DB, res *calib.Result, c cell) error {
	statement, err := db.Prepare(sqlInsertCellTmpl)
	if err != nil {
		return err
	}
	if _, err := statement.Exec(res.RunID, res.Source, res.Mode, c.matrix, c.tx, c.rx, c.re, c.im, res.Start.UnixMilli(), res.End.UnixMilli()); err != nil {
		return err
	}

	return nil
}
