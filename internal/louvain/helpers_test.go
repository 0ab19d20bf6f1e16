package louvain_test

import (
	"github.com/rs/zerolog"

	"github.com/gilchrisn/communitygo/internal/coarsen"
)

var testCoarsen = coarsen.Coarsen

func discardLogger() zerolog.Logger { return zerolog.Nop() }
