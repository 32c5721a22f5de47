package elevation

import (
	"fmt"
	"io"
	"sort"

	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/geocell"
	"github.com/forestrie/go-geodata/grid"
)

type cellData struct {
	status Status
	header grid.Header
	grid   endian.Order
	data   []float32
}

// Writer assembles an elevation file for one resolution in memory.
type Writer struct {
	version string
	order   endian.Order
	cells   map[int]cellData
}

func NewWriter(version string, order endian.Order) *Writer {
	return &Writer{version: version, order: order, cells: map[int]cellData{}}
}

// SetWater records the cell with south west corner lat, lon as water.
func (w *Writer) SetWater(lat, lon int) error {
	cell, err := geocell.New(lat, lon)
	if err != nil {
		return err
	}
	w.cells[cell.Index()] = cellData{status: StatusWater}
	return nil
}

// SetLand records the height grid of a land cell. The grid is written in the
// file's byte order.
func (w *Writer) SetLand(lat, lon int, h grid.Header, heights []float32) error {
	return w.SetLandOrder(lat, lon, h, w.order, heights)
}

// SetLandOrder is SetLand with the grid in byte order o.
func (w *Writer) SetLandOrder(lat, lon int, h grid.Header, o endian.Order, heights []float32) error {
	cell, err := geocell.New(lat, lon)
	if err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if len(heights) != h.Samples() {
		return fmt.Errorf("cell %s needs %d heights, have %d", cell, h.Samples(), len(heights))
	}
	w.cells[cell.Index()] = cellData{status: StatusLand, header: h, grid: o, data: heights}
	return nil
}

// Encode returns the complete file.
func (w *Writer) Encode() ([]byte, error) {
	preamble := fmt.Sprintf("%s %s", w.version, w.order.Tag())
	if len(preamble) > PreambleSize {
		return nil, fmt.Errorf("version %q does not fit the preamble", w.version)
	}
	out := make([]byte, IndexEnd)
	copy(out, preamble)

	indices := make([]int, 0, len(w.cells))
	for i := range w.cells {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	bo := w.order.ByteOrder()
	for _, i := range indices {
		cd := w.cells[i]
		rec := out[IndexStart+i*IndexRecordSize:]
		bo.PutUint32(rec[StatusFirstByte:], uint32(cd.status))
		if cd.status != StatusLand {
			continue
		}
		b, err := grid.Encode(cd.header, cd.grid, cd.data)
		if err != nil {
			return nil, err
		}
		bo.PutUint64(rec[DataAddressFirstByte:], uint64(len(out)))
		out = append(out, b...)
	}
	return out, nil
}

func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	b, err := w.Encode()
	if err != nil {
		return 0, err
	}
	n, err := out.Write(b)
	return int64(n), err
}
