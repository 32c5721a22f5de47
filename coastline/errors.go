package coastline

import (
	"errors"
)

var (
	// ErrEndOfCell is returned by NextSegment once every segment of the
	// selected cell has been returned.
	ErrEndOfCell      = errors.New("no more segments in the cell")
	ErrNoCellSelected = errors.New("no coastline cell selected, call Select first")
	ErrUnknownKind    = errors.New("unknown coastline source type")
	ErrOutsideCell    = errors.New("segment vertex outside its cell")
)
