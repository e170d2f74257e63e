package export

import (
	"context"
	"database/sql"

	"github.com/hb9tf/radcal/calib"
)

type MySQL struct {
	DB *sql.DB
}

func (m *MySQL) Write(ctx context.Context, res *calib.Result) error {
	sq := &SQL{DB: m.DB}
	return sq.Write(ctx, res)
}
