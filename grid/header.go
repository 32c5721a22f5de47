package grid

// A grid file is a fixed 44 byte header followed immediately by rows*cols
// float32 samples, row major, south row first and west column first.
//
// .        | lat origin | lon origin | lat spacing | lon spacing | rows  | cols  | flag  |
// .        | 0        7 | 8       15 | 16       23 | 24       31 | 32 35 | 36 39 | 40 43 |
// bytes    |     8      |     8      |      8      |      8      |   4   |   4   |   4   |
//
// The flag is always written as FlagMarker. Reading it in host order tells us
// whether the file was written in the host byte order or the opposite one.
import (
	"fmt"
	"math"

	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/storage"
)

const (
	LatOriginFirstByte  = 0
	LonOriginFirstByte  = 8
	LatSpacingFirstByte = 16
	LonSpacingFirstByte = 24
	RowsFirstByte       = 32
	ColsFirstByte       = 36
	FlagFirstByte       = 40
	HeaderSize          = 44

	FlagMarker = uint32(1)
	SampleSize = 4

	// MaxTileSamples bounds the payload a single header may ask for.
	MaxTileSamples = 1 << 26
)

// Header describes a regular grid of samples. The far bounds are derived from
// the origin, spacing and extent and never stored.
type Header struct {
	LatOrigin  float64
	LonOrigin  float64
	LatSpacing float64
	LonSpacing float64
	Rows       int32
	Cols       int32
}

// LatBounds returns the latitudes of the south and north sample rows.
func (h Header) LatBounds() (float64, float64) {
	return h.LatOrigin, h.LatOrigin + h.LatSpacing*float64(h.Rows-1)
}

// LonBounds returns the longitudes of the west and east sample columns.
func (h Header) LonBounds() (float64, float64) {
	return h.LonOrigin, h.LonOrigin + h.LonSpacing*float64(h.Cols-1)
}

// Samples is the number of samples in the payload.
func (h Header) Samples() int {
	return int(h.Rows) * int(h.Cols)
}

// PayloadBytes is the size of the sample payload that follows the header.
func (h Header) PayloadBytes() int64 {
	return int64(h.Samples()) * SampleSize
}

// Contains reports whether lat, lon lies in the selection box of the grid.
//
// The box is the sample extent with the north and east edges pulled in by
// eps, and the south and west edges let out by eps. A point on an edge shared
// by two grids belongs to exactly one of them: the one it is the south or
// west edge of.
func (h Header) Contains(lat, lon, eps float64) bool {
	s, n := h.LatBounds()
	w, e := h.LonBounds()
	return lat >= s-eps && lat < n-eps && lon >= w-eps && lon < e-eps
}

// Validate checks the header describes a usable grid.
func (h Header) Validate() error {
	if h.Rows < 2 || h.Cols < 2 {
		return fmt.Errorf("%w: grid must be at least 2x2, have %dx%d", storage.ErrCorrupt, h.Rows, h.Cols)
	}
	if !(h.LatSpacing > 0) || !(h.LonSpacing > 0) || math.IsInf(h.LatSpacing, 0) || math.IsInf(h.LonSpacing, 0) {
		return fmt.Errorf("%w: bad grid spacing %v, %v", storage.ErrCorrupt, h.LatSpacing, h.LonSpacing)
	}
	if math.IsNaN(h.LatOrigin) || math.IsNaN(h.LonOrigin) {
		return fmt.Errorf("%w: bad grid origin", storage.ErrCorrupt)
	}
	if int64(h.Rows)*int64(h.Cols) > MaxTileSamples {
		return fmt.Errorf("%w: %dx%d samples", storage.ErrAllocation, h.Rows, h.Cols)
	}
	return nil
}

// EncodeHeader encodes h in the grid header format using the byte order o.
func EncodeHeader(h Header, o endian.Order) []byte {
	b := make([]byte, HeaderSize)
	bo := o.ByteOrder()
	bo.PutUint64(b[LatOriginFirstByte:], math.Float64bits(h.LatOrigin))
	bo.PutUint64(b[LonOriginFirstByte:], math.Float64bits(h.LonOrigin))
	bo.PutUint64(b[LatSpacingFirstByte:], math.Float64bits(h.LatSpacing))
	bo.PutUint64(b[LonSpacingFirstByte:], math.Float64bits(h.LonSpacing))
	bo.PutUint32(b[RowsFirstByte:], uint32(h.Rows))
	bo.PutUint32(b[ColsFirstByte:], uint32(h.Cols))
	bo.PutUint32(b[FlagFirstByte:], FlagMarker)
	return b
}

// DecodeHeader decodes and validates a grid header, returning the guard that
// corrects the samples which follow it.
func DecodeHeader(b []byte) (Header, endian.Guard, error) {
	if len(b) < HeaderSize {
		return Header{}, endian.Guard{}, fmt.Errorf("%w: grid header needs %d bytes, have %d", storage.ErrTruncated, HeaderSize, len(b))
	}
	g, err := endian.DetectFlag32(b[FlagFirstByte:FlagFirstByte+4], FlagMarker)
	if err != nil {
		return Header{}, endian.Guard{}, err
	}
	h := Header{
		LatOrigin:  g.Float64(b[LatOriginFirstByte:]),
		LonOrigin:  g.Float64(b[LonOriginFirstByte:]),
		LatSpacing: g.Float64(b[LatSpacingFirstByte:]),
		LonSpacing: g.Float64(b[LonSpacingFirstByte:]),
		Rows:       g.Int32(b[RowsFirstByte:]),
		Cols:       g.Int32(b[ColsFirstByte:]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, endian.Guard{}, err
	}
	return h, g, nil
}
