package grid

import (
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/geotesting"
	"github.com/forestrie/go-geodata/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHeader is a 3x4 grid with 0.5 degree spacing anchored at 10N 20E
func testHeader() Header {
	return Header{
		LatOrigin: 10, LonOrigin: 20,
		LatSpacing: 0.5, LonSpacing: 0.5,
		Rows: 3, Cols: 4,
	}
}

func testSamples() []float32 {
	return []float32{
		1, 2, 3, 4, // south row
		5, 6, 7, 8,
		9, 10, 11, 12.5, // north row
	}
}

func writeGrid(t *testing.T, tc *geotesting.TestContext, name string, h Header, o endian.Order, samples []float32) string {
	b, err := Encode(h, o, samples)
	require.NoError(t, err)
	return tc.WriteFile(filepath.Join(tc.Config.GeoidDir(), name), b)
}

func TestHeaderRoundTrip(t *testing.T) {
	for _, o := range []endian.Order{endian.BigEndian, endian.LittleEndian} {
		h, g, err := DecodeHeader(EncodeHeader(testHeader(), o))
		require.NoError(t, err)
		assert.Equal(t, testHeader(), h)
		assert.Equal(t, o, g.File())
	}
}

func TestHeaderBounds(t *testing.T) {
	h := testHeader()
	s, n := h.LatBounds()
	w, e := h.LonBounds()
	assert.Equal(t, 10.0, s)
	assert.Equal(t, 11.0, n)
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 21.5, e)

	assert.True(t, h.Contains(10, 20, BoundsEpsilon))
	assert.True(t, h.Contains(10.99, 21.49, BoundsEpsilon))
	// north and east edges belong to the neighbours
	assert.False(t, h.Contains(11, 20.5, BoundsEpsilon))
	assert.False(t, h.Contains(10.5, 21.5, BoundsEpsilon))
	assert.False(t, h.Contains(9.9, 20.5, BoundsEpsilon))
}

func TestDecodeHeaderRejects(t *testing.T) {
	_, _, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, storage.ErrTruncated)

	// zero flag is not a marker in either order
	_, _, err = DecodeHeader(make([]byte, HeaderSize))
	require.ErrorIs(t, err, storage.ErrCorrupt)

	h := testHeader()
	h.Rows = 1
	_, _, err = DecodeHeader(EncodeHeader(h, endian.Native()))
	require.ErrorIs(t, err, storage.ErrCorrupt)

	h = testHeader()
	h.LatSpacing = 0
	_, _, err = DecodeHeader(EncodeHeader(h, endian.Native()))
	require.ErrorIs(t, err, storage.ErrCorrupt)

	h = testHeader()
	h.Rows, h.Cols = 1<<14, 1<<14
	_, _, err = DecodeHeader(EncodeHeader(h, endian.Native()))
	require.ErrorIs(t, err, storage.ErrAllocation)
}

func TestOpenMissingIsUnavailable(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()
	tc := geotesting.NewTestContext(t, geotesting.TestConfig{TestLabelPrefix: "TestOpenMissing"})

	_, err := Open(tc.Opener, filepath.Join(tc.Config.GeoidDir(), "absent.bin"))
	require.ErrorIs(t, err, storage.ErrSourceUnavailable)
}

func TestOppositeEndianDecodesIdentically(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()
	tc := geotesting.NewTestContext(t, geotesting.TestConfig{TestLabelPrefix: "TestOppositeEndian"})

	native := writeGrid(t, &tc, "native.bin", testHeader(), endian.Native(), testSamples())
	swapped := writeGrid(t, &tc, "swapped.bin", testHeader(), endian.Native().Opposite(), testSamples())

	a, err := Open(tc.Opener, native)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(tc.Opener, swapped)
	require.NoError(t, err)
	defer b.Close()

	require.False(t, a.Guard.Swaps())
	require.True(t, b.Guard.Swaps())
	require.Equal(t, a.Header, b.Header)

	pa, err := a.ReadPayload()
	require.NoError(t, err)
	pb, err := b.ReadPayload()
	require.NoError(t, err)
	require.Equal(t, testSamples(), pa)
	require.Equal(t, pa, pb)
}

func TestTileCacheLoadsOncePerKey(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()
	tc := geotesting.NewTestContext(t, geotesting.TestConfig{TestLabelPrefix: "TestTileCacheLoads"})

	path := writeGrid(t, &tc, "a.bin", testHeader(), endian.BigEndian, testSamples())
	src, err := Open(tc.Opener, path)
	require.NoError(t, err)
	defer src.Close()
	tc.Opener.ResetCounts()

	var c TileCache
	require.NoError(t, c.Load(1, src))
	require.Equal(t, 1, tc.Opener.Reads)
	require.True(t, c.Holds(1))

	// same key never re-reads
	require.NoError(t, c.Load(1, src))
	require.Equal(t, 1, tc.Opener.Reads)
	require.Equal(t, 1, c.Loads())

	// a different key always reloads exactly once
	require.NoError(t, c.Load(2, src))
	require.Equal(t, 2, tc.Opener.Reads)
	require.Equal(t, 2, c.Loads())
	require.False(t, c.Holds(1))
	key, ok := c.Key()
	require.True(t, ok)
	require.Equal(t, 2, key)

	c.Reset()
	_, ok = c.Key()
	require.False(t, ok)
	_, err = c.Bilinear(10, 20)
	require.ErrorIs(t, err, storage.ErrNoData)
}

func TestBilinear(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()
	tc := geotesting.NewTestContext(t, geotesting.TestConfig{TestLabelPrefix: "TestBilinear"})

	path := writeGrid(t, &tc, "a.bin", testHeader(), endian.LittleEndian, testSamples())
	src, err := Open(tc.Opener, path)
	require.NoError(t, err)
	defer src.Close()

	var c TileCache
	require.NoError(t, c.Load(0, src))

	tests := []struct {
		name     string
		lat, lon float64
		want     float64
	}{
		{name: "south west node", lat: 10, lon: 20, want: 1},
		{name: "interior node", lat: 10.5, lon: 20.5, want: 6},
		{name: "north east node", lat: 11, lon: 21.5, want: 12.5},
		{name: "cell centre", lat: 10.25, lon: 20.25, want: (1 + 2 + 5 + 6) / 4.0},
		{name: "along latitude", lat: 10.25, lon: 20, want: 3},
		{name: "along longitude", lat: 10, lon: 20.75, want: 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Bilinear(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	// exact at grid nodes
	got, err := c.Bilinear(10, 20)
	require.NoError(t, err)
	require.Equal(t, float64(1), got)

	_, err = c.Bilinear(9, 20)
	require.ErrorIs(t, err, storage.ErrNoData)
	_, err = c.Bilinear(10, 22)
	require.ErrorIs(t, err, storage.ErrNoData)

	v, err := c.Nearest(10.3, 20.2)
	require.NoError(t, err)
	require.Equal(t, float32(5), v)
	v, err = c.Nearest(11, 21.5)
	require.NoError(t, err)
	require.Equal(t, float32(12.5), v)
}

func TestInterpolateOrder(t *testing.T) {
	sw, nw, se, ne := 1.0, 3.0, 5.0, 11.0
	ty, tx := 0.25, 0.75
	west := sw + (nw-sw)*ty
	east := se + (ne-se)*ty
	require.Equal(t, west+(east-west)*tx, interpolate(sw, nw, se, ne, ty, tx))
	require.Equal(t, sw, interpolate(sw, nw, se, ne, 0, 0))
	require.Equal(t, ne, interpolate(sw, nw, se, ne, 1, 1))
}

func TestMosaicSelectsOneGridOnSharedEdge(t *testing.T) {
	logger.New("NOOP")
	defer logger.OnExit()
	tc := geotesting.NewTestContext(t, geotesting.TestConfig{TestLabelPrefix: "TestMosaic"})

	south := testHeader()
	north := testHeader()
	north.LatOrigin = 11
	northSamples := make([]float32, north.Samples())
	for i := range northSamples {
		northSamples[i] = 100 + float32(i)
	}

	a, err := Open(tc.Opener, writeGrid(t, &tc, "south.bin", south, endian.BigEndian, testSamples()))
	require.NoError(t, err)
	b, err := Open(tc.Opener, writeGrid(t, &tc, "north.bin", north, endian.LittleEndian, northSamples))
	require.NoError(t, err)

	m := NewMosaic([]*Source{nil, a, b})
	defer m.Close()

	key, ok := m.Locate(11, 20)
	require.True(t, ok)
	require.Equal(t, 2, key)
	key, ok = m.Locate(10.999, 20)
	require.True(t, ok)
	require.Equal(t, 1, key)
	_, ok = m.Locate(50, 50)
	require.False(t, ok)

	v, err := m.Bilinear(11, 20)
	require.NoError(t, err)
	require.Equal(t, float64(100), v)
	v, err = m.Bilinear(10, 20)
	require.NoError(t, err)
	require.Equal(t, float64(1), v)
	require.Equal(t, 2, m.Cache().Loads())

	_, err = m.Bilinear(50, 50)
	require.ErrorIs(t, err, storage.ErrNoData)

	require.NoError(t, m.Close())
	require.Nil(t, m.Source(1))
}
