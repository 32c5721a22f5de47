package coastline

import (
	"fmt"
	"io"
	"sort"

	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/geocell"
)

// cellBlock is the packed data block of one cell.
type cellBlock struct {
	data     []byte
	segments int
	vertices int
}

// Writer assembles a coastline file in memory.
type Writer struct {
	version string
	order   endian.Order
	cells   map[int]*cellBlock
}

// NewWriter returns a Writer whose preamble carries version and the tag for
// order.
func NewWriter(version string, order endian.Order) *Writer {
	return &Writer{version: version, order: order, cells: map[int]*cellBlock{}}
}

// Add appends seg to the cell with south west corner lat, lon. Every vertex
// must lie within one degree of the corner, ErrOutsideCell otherwise.
func (w *Writer) Add(lat, lon int, seg Segment) error {
	cell, err := geocell.New(lat, lon)
	if err != nil {
		return err
	}
	b, err := EncodeSegment(cell, seg)
	if err != nil {
		return fmt.Errorf("%s: %w", cell, err)
	}
	block := w.cells[cell.Index()]
	if block == nil {
		block = &cellBlock{}
		w.cells[cell.Index()] = block
	}
	block.data = append(block.data, b...)
	block.segments++
	block.vertices += len(seg)
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
		block := w.cells[i]
		rec := out[IndexStart+i*IndexRecordSize:]
		bo.PutUint32(rec[DataAddressFirstByte:], uint32(len(out)))
		bo.PutUint32(rec[SegmentsFirstByte:], uint32(block.segments))
		bo.PutUint32(rec[VerticesFirstByte:], uint32(block.vertices))
		out = append(out, block.data...)
	}
	return out, nil
}

// WriteTo writes the complete file to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	b, err := w.Encode()
	if err != nil {
		return 0, err
	}
	n, err := out.Write(b)
	return int64(n), err
}
