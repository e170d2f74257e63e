package export

import (
	"context"

	"github.com/hb9tf/radcal/calib"
)

type Exporter interface {
	Write(context.Context, *calib.Result) error
}
