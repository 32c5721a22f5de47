// Package elevation serves terrain heights from the SRTM cell files, trying
// the available resolutions from finest to coarsest.
package elevation

// An elevation file holds one resolution for the whole world.
//
// .        | version preamble | cell index              | cell grids ...
// .        | 0            127 | 128 .. 128+180*360*16-1 |
//
// The preamble is NUL padded ASCII recording the byte order of the index, as
// for coastline files. Each index record is
//
// .        | data address | status | reserved |
// .        | 0          7 | 8   11 | 12    15 |
//
// in cell order. Land cells address a grid, header and float32 heights, whose
// byte order is carried by the grid header itself.
import (
	"fmt"

	"github.com/forestrie/go-geodata/geocell"
)

const (
	PreambleSize         = 128
	IndexRecordSize      = 16
	IndexStart           = PreambleSize
	IndexEnd             = IndexStart + geocell.Cells*IndexRecordSize
	DataAddressFirstByte = 0
	StatusFirstByte      = 8

	// VoidSample marks a grid node with no measured height.
	VoidSample = -32768
)

// Status is the recorded state of a cell at one resolution.
type Status int32

const (
	StatusUndefined Status = iota
	StatusWater
	StatusLand
)

func (s Status) String() string {
	switch s {
	case StatusUndefined:
		return "undefined"
	case StatusWater:
		return "water"
	case StatusLand:
		return "land"
	}
	return fmt.Sprintf("elevation.Status(%d)", int32(s))
}

// IndexOffset is the file offset of the index record for c.
func IndexOffset(c geocell.Cell) int64 {
	return IndexStart + int64(c.Index())*IndexRecordSize
}
