package coastline

import (
	"fmt"
	"math"

	"github.com/forestrie/go-geodata/bitpack"
	"github.com/forestrie/go-geodata/geocell"
	"github.com/forestrie/go-geodata/storage"
)

type Vertex struct {
	Lon float64
	Lat float64
}

// Segment is an ordered, non empty, run of vertices. Segments returned by a
// Store belong to the caller.
type Segment []Vertex

// segmentHead is the part of a record needed to size the rest of it.
type segmentHead struct {
	countBits uint
	lonBits   uint
	latBits   uint
	count     uint32
}

func (h segmentHead) bits() uint64 {
	return SegmentBits(h.countBits, h.lonBits, h.latBits, h.count)
}

// decodeWidths reads the three width descriptors from the first two bytes.
func decodeWidths(buf []byte) (segmentHead, error) {
	var h segmentHead
	s := bitpack.NewStream(buf)
	for _, w := range []*uint{&h.countBits, &h.lonBits, &h.latBits} {
		v, err := s.Next(WidthFieldBits)
		if err != nil {
			return segmentHead{}, err
		}
		*w = uint(v)
	}
	if h.countBits == 0 {
		return segmentHead{}, fmt.Errorf("%w: zero width segment count", storage.ErrCorrupt)
	}
	return h, nil
}

// countEndBits is the bit offset just past the count field.
func (h segmentHead) countEndBits() uint64 {
	return 3*WidthFieldBits + uint64(h.countBits)
}

func (h *segmentHead) decodeCount(buf []byte) error {
	count, err := bitpack.Read(buf, 3*WidthFieldBits, h.countBits)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: segment with no vertices", storage.ErrCorrupt)
	}
	if count > MaxSegmentVertices {
		return fmt.Errorf("%w: segment of %d vertices", storage.ErrAllocation, count)
	}
	h.count = count
	return nil
}

// DecodeSegment unpacks a complete segment record. Longitudes are returned in
// the range of the requested cell, 360 is added when the cell was wrapped.
func DecodeSegment(buf []byte, cell geocell.Cell) (Segment, error) {
	h, err := decodeWidths(buf)
	if err != nil {
		return nil, err
	}
	if err := h.decodeCount(buf); err != nil {
		return nil, err
	}
	if need := bitpack.ByteLen(h.bits()); uint64(len(buf)) < need {
		return nil, fmt.Errorf("%w: segment needs %d bytes, have %d", storage.ErrTruncated, need, len(buf))
	}

	s := &bitpack.Stream{Buf: buf, Offset: h.countEndBits()}
	lonBias, err := s.NextField(BiasField)
	if err != nil {
		return nil, err
	}
	latBias, err := s.NextField(BiasField)
	if err != nil {
		return nil, err
	}
	startLon, err := s.Next(StartLonBits)
	if err != nil {
		return nil, err
	}
	startLat, err := s.Next(StartLatBits)
	if err != nil {
		return nil, err
	}

	lon, lat := int64(startLon), int64(startLat)
	seg := make(Segment, h.count)
	for i := range seg {
		if i > 0 {
			dlon, err := s.Next(h.lonBits)
			if err != nil {
				return nil, err
			}
			dlat, err := s.Next(h.latBits)
			if err != nil {
				return nil, err
			}
			lon += int64(dlon) - lonBias
			lat += int64(dlat) - latBias
		}
		if !inCell(cell, lon, lat) {
			return nil, fmt.Errorf("%w: vertex %d of %s segment at %d, %d units", storage.ErrCorrupt, i, cell, lon, lat)
		}
		seg[i] = vertex(cell, lon, lat)
	}
	return seg, nil
}

// inCell reports whether lon, lat, in stored units, lie on or within one unit
// of the cell.
func inCell(cell geocell.Cell, lon, lat int64) bool {
	row, col := cell.Biased()
	west, south := int64(col)*CoordScale, int64(row)*CoordScale
	return lon >= west-1 && lon <= west+CoordScale+1 && lat >= south-1 && lat <= south+CoordScale+1
}

func vertex(cell geocell.Cell, lon, lat int64) Vertex {
	return Vertex{
		Lon: cell.OutputLon(float64(lon)/CoordScale - 180),
		Lat: float64(lat)/CoordScale - 90,
	}
}

// quantize converts degrees to stored units. Longitudes of a wrapped cell are
// folded back first.
func quantize(cell geocell.Cell, v Vertex) (int64, int64) {
	lon := v.Lon
	if cell.Wrapped {
		lon -= 360
	}
	return int64(math.Round((lon + 180) * CoordScale)), int64(math.Round((v.Lat + 90) * CoordScale))
}

// EncodeSegment packs seg, whose vertices lie in cell, in the segment record
// format. A vertex may sit on the cell's north or east edge.
func EncodeSegment(cell geocell.Cell, seg Segment) ([]byte, error) {
	if len(seg) == 0 {
		return nil, fmt.Errorf("%w: empty segment", storage.ErrCorrupt)
	}
	if len(seg) > MaxSegmentVertices {
		return nil, fmt.Errorf("%w: segment of %d vertices", storage.ErrAllocation, len(seg))
	}

	lons := make([]int64, len(seg))
	lats := make([]int64, len(seg))
	for i, v := range seg {
		lons[i], lats[i] = quantize(cell, v)
		if !inCell(cell, lons[i], lats[i]) {
			return nil, fmt.Errorf("%w: vertex %d at %v, %v is outside %s", ErrOutsideCell, i, v.Lon, v.Lat, cell)
		}
	}
	if lons[0] < 0 || lons[0] >= 1<<StartLonBits || lats[0] < 0 || lats[0] >= 1<<StartLatBits {
		return nil, fmt.Errorf("%w: start vertex %v out of range", storage.ErrCorrupt, seg[0])
	}

	lonBias, lonBits := deltaCoding(lons)
	latBias, latBits := deltaCoding(lats)
	count := uint32(len(seg))
	h := segmentHead{
		countBits: bitpack.BitsFor(count),
		lonBits:   lonBits,
		latBits:   latBits,
		count:     count,
	}
	if h.lonBits >= 1<<WidthFieldBits || h.latBits >= 1<<WidthFieldBits || h.countBits >= 1<<WidthFieldBits {
		return nil, fmt.Errorf("%w: segment field widths %d, %d, %d", storage.ErrCorrupt, h.countBits, h.lonBits, h.latBits)
	}

	buf := make([]byte, bitpack.ByteLen(h.bits()))
	sink := &bitpack.Sink{Buf: buf}
	puts := []struct {
		width uint
		value uint32
	}{
		{WidthFieldBits, uint32(h.countBits)},
		{WidthFieldBits, uint32(h.lonBits)},
		{WidthFieldBits, uint32(h.latBits)},
		{h.countBits, count},
	}
	for _, p := range puts {
		if err := sink.Put(p.width, p.value); err != nil {
			return nil, err
		}
	}
	if err := sink.PutField(BiasField, lonBias); err != nil {
		return nil, err
	}
	if err := sink.PutField(BiasField, latBias); err != nil {
		return nil, err
	}
	if err := sink.Put(StartLonBits, uint32(lons[0])); err != nil {
		return nil, err
	}
	if err := sink.Put(StartLatBits, uint32(lats[0])); err != nil {
		return nil, err
	}
	for i := 1; i < len(seg); i++ {
		if err := sink.Put(h.lonBits, uint32(lons[i]-lons[i-1]+lonBias)); err != nil {
			return nil, err
		}
		if err := sink.Put(h.latBits, uint32(lats[i]-lats[i-1]+latBias)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// deltaCoding returns the bias that makes every delta of vs non negative and
// the width needed for the largest biased delta.
func deltaCoding(vs []int64) (int64, uint) {
	if len(vs) < 2 {
		return 0, 1
	}
	lo, hi := vs[1]-vs[0], vs[1]-vs[0]
	for i := 2; i < len(vs); i++ {
		d := vs[i] - vs[i-1]
		lo = min(lo, d)
		hi = max(hi, d)
	}
	bias := -lo
	return bias, bitpack.BitsFor(uint32(hi + bias))
}
