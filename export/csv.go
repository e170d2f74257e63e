package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/hb9tf/radcal/calib"
)

type CSV struct{}

func (c *CSV) Write(ctx context.Context, res *calib.Result) error {
	w := csv.NewWriter(os.Stdout)
	w.Write([]string{
		"RunID",
		"Source",
		"Mode",
		"Matrix",
		"TX",
		"RX",
		"Real",
		"Imag",
	})

	for _, cell := range cells(res) {
		if err := w.Write([]string{
			res.RunID,
			res.Source,
			res.Mode,
			cell.matrix,
			fmt.Sprintf("%d", cell.tx),
			fmt.Sprintf("%d", cell.rx),
			fmt.Sprintf("%g", cell.re),
			fmt.Sprintf("%g", cell.im),
		}); err != nil {
			glog.Warningf("error while writing CSV line: %s\n", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		glog.Warningf("error flushing CSV: %s\n", err)
	}
	return nil
}

type cell struct {
	matrix string
	tx, rx int
	re, im float64
}

// cells flattens the result's matrices into one row per matrix entry.
func cells(res *calib.Result) []cell {
	var out []cell
	add := func(matrix string, m *calib.ComplexMatrix) {
		if m == nil {
			return
		}
		for tx := 0; tx < m.TXCount; tx++ {
			for rx := 0; rx < m.RXCount; rx++ {
				v := m.At(tx, rx)
				out = append(out, cell{matrix: matrix, tx: tx, rx: rx, re: real(v), im: imag(v)})
			}
		}
	}
	add("coupling", res.Coupling)
	add("phase_amp", res.PhaseAmp)
	if m := res.Frequency; m != nil {
		for tx := 0; tx < m.TXCount; tx++ {
			for rx := 0; rx < m.RXCount; rx++ {
				out = append(out, cell{matrix: "frequency", tx: tx, rx: rx, re: m.At(tx, rx)})
			}
		}
	}
	return out
}
