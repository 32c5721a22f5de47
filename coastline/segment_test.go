package coastline

import (
	"testing"

	"github.com/forestrie/go-geodata/bitpack"
	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/geocell"
	"github.com/forestrie/go-geodata/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSegment(t *testing.T, want, got Segment) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].Lon, got[i].Lon, 1e-6, "vertex %d lon", i)
		assert.InDelta(t, want[i].Lat, got[i].Lat, 1e-6, "vertex %d lat", i)
	}
}

func TestEncodeSingleVertexLayout(t *testing.T) {
	corner, err := geocell.New(-90, -180)
	require.NoError(t, err)
	b, err := EncodeSegment(corner, Segment{{Lon: -180, Lat: -90}})
	require.NoError(t, err)

	// widths 1,1,1 and a count of 1 fill exactly the first 16 bits
	require.Len(t, b, 13)
	assert.Equal(t, []byte{0x08, 0x43}, b[:2])

	bias, err := (&bitpack.Stream{Buf: b, Offset: 16}).NextField(BiasField)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bias)
}

func TestSegmentRoundTrip(t *testing.T) {
	cell, err := geocell.New(45, 5)
	require.NoError(t, err)

	tests := []struct {
		name string
		seg  Segment
	}{
		{"single vertex", Segment{{Lon: 5.5, Lat: 45.5}}},
		{"two vertices", Segment{{Lon: 5.1, Lat: 45.1}, {Lon: 5.2, Lat: 45.05}}},
		{"constant step", Segment{{Lon: 5, Lat: 45}, {Lon: 5.1, Lat: 45.1}, {Lon: 5.2, Lat: 45.2}}},
		{"fine detail", Segment{
			{Lon: 5.00001, Lat: 45.99999},
			{Lon: 5.12345, Lat: 45.54321},
			{Lon: 5.99999, Lat: 45.00001},
			{Lon: 5.5, Lat: 45.5},
			{Lon: 5.50001, Lat: 45.5},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := EncodeSegment(cell, tt.seg)
			require.NoError(t, err)

			h, err := decodeWidths(b)
			require.NoError(t, err)
			require.NoError(t, h.decodeCount(b))
			assert.Equal(t, uint32(len(tt.seg)), h.count)
			assert.Equal(t, bitpack.ByteLen(h.bits()), uint64(len(b)))

			got, err := DecodeSegment(b, cell)
			require.NoError(t, err)
			assertSegment(t, tt.seg, got)
		})
	}
}

func TestDecodeWrappedCell(t *testing.T) {
	west, err := geocell.New(45, -175)
	require.NoError(t, err)
	b, err := EncodeSegment(west, Segment{{Lon: -174.75, Lat: 45.25}, {Lon: -174.5, Lat: 45.5}})
	require.NoError(t, err)

	wrapped, err := geocell.New(45, 185)
	require.NoError(t, err)
	got, err := DecodeSegment(b, wrapped)
	require.NoError(t, err)
	assertSegment(t, Segment{{Lon: 185.25, Lat: 45.25}, {Lon: 185.5, Lat: 45.5}}, got)

	// encoding in the wrapped range stores the same record
	again, err := EncodeSegment(wrapped, got)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestSegmentOnAntimeridian(t *testing.T) {
	cell, err := geocell.New(10, 179)
	require.NoError(t, err)

	seg := Segment{{Lon: 179.5, Lat: 10.5}, {Lon: 179.9, Lat: 10.6}, {Lon: 180, Lat: 10.7}}
	b, err := EncodeSegment(cell, seg)
	require.NoError(t, err)
	got, err := DecodeSegment(b, cell)
	require.NoError(t, err)
	assertSegment(t, seg, got)

	w := NewWriter("antimeridian", endian.BigEndian)
	require.NoError(t, w.Add(10, 179, seg))
	_, err = w.Encode()
	require.NoError(t, err)
}

func TestEncodeOutsideCell(t *testing.T) {
	cell, err := geocell.New(10, 179)
	require.NoError(t, err)

	tests := []struct {
		name string
		seg  Segment
	}{
		{"folded east edge", Segment{{Lon: 179.5, Lat: 10.5}, {Lon: -180, Lat: 10.5}}},
		{"west of the cell", Segment{{Lon: 178.5, Lat: 10.5}}},
		{"north of the cell", Segment{{Lon: 179.5, Lat: 10.5}, {Lon: 179.5, Lat: 11.1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeSegment(cell, tt.seg)
			assert.ErrorIs(t, err, ErrOutsideCell)

			w := NewWriter("outside", endian.BigEndian)
			assert.ErrorIs(t, w.Add(10, 179, tt.seg), ErrOutsideCell)
		})
	}
}

func TestDecodeRejectsRecordOfAnotherCell(t *testing.T) {
	here, err := geocell.New(10, 10)
	require.NoError(t, err)
	there, err := geocell.New(20, 20)
	require.NoError(t, err)

	b, err := EncodeSegment(here, Segment{{Lon: 10.5, Lat: 10.5}, {Lon: 10.6, Lat: 10.4}})
	require.NoError(t, err)

	_, err = DecodeSegment(b, there)
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	// starts on the shared edge, the second vertex leaves the cell below
	b, err = EncodeSegment(here, Segment{{Lon: 10.5, Lat: 10}, {Lon: 10.5, Lat: 11}})
	require.NoError(t, err)
	_, err = DecodeSegment(b, here)
	require.NoError(t, err)
	below, err := geocell.New(9, 10)
	require.NoError(t, err)
	_, err = DecodeSegment(b, below)
	assert.ErrorIs(t, err, storage.ErrCorrupt)
}

func TestDecodeSegmentRejects(t *testing.T) {
	cell, err := geocell.New(0, 0)
	require.NoError(t, err)

	b, err := EncodeSegment(cell, Segment{{Lon: 0.1, Lat: 0.1}, {Lon: 0.2, Lat: 0.3}, {Lon: 0.4, Lat: 0.2}})
	require.NoError(t, err)

	_, err = DecodeSegment(b[:len(b)-1], cell)
	assert.ErrorIs(t, err, storage.ErrTruncated)

	// zero count width
	_, err = DecodeSegment(make([]byte, 16), cell)
	assert.ErrorIs(t, err, storage.ErrCorrupt)

	_, err = EncodeSegment(cell, nil)
	assert.ErrorIs(t, err, storage.ErrCorrupt)
}
