package export

import (
	"context"
	"database/sql"

	"github.com/hb9tf/radcal/calib"
)

type SQLite struct {
	DB *sql.DB
}

func (s *SQLite) Write(ctx context.Context, res *calib.Result) error {
	sq := &SQL{DB: s.DB}
	return sq.Write(ctx, res)
}
