package bitpack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func TestReadStraddlesBytes(t *testing.T) {
	buf := []byte{0b1010_1100, 0b0101_0011, 0xff}

	tests := []struct {
		name   string
		offset uint64
		width  uint
		want   uint32
	}{
		{name: "first bit", offset: 0, width: 1, want: 1},
		{name: "second bit", offset: 1, width: 1, want: 0},
		{name: "whole first byte", offset: 0, width: 8, want: 0xac},
		{name: "nibble across boundary", offset: 6, width: 4, want: 0b0001},
		{name: "eleven bits from 3", offset: 3, width: 11, want: 0b011_0001_0100},
		{name: "last bit", offset: 23, width: 1, want: 1},
		{name: "all bits", offset: 0, width: 24, want: 0xac53ff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(buf, tt.offset, tt.width)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadTruncated(t *testing.T) {
	buf := []byte{0xff, 0xff}

	_, err := Read(buf, 9, 8)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Read(buf, 16, 1)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = Read(nil, 0, 1)
	require.ErrorIs(t, err, ErrTruncated)

	// exactly reaching the end is fine
	v, err := Read(buf, 8, 8)
	require.NoError(t, err)
	require.Equal(t, uint32(0xff), v)
}

func TestReadBadWidth(t *testing.T) {
	buf := make([]byte, 8)
	_, err := Read(buf, 0, 0)
	require.ErrorIs(t, err, ErrBadWidth)
	_, err = Read(buf, 0, 33)
	require.ErrorIs(t, err, ErrBadWidth)
}

func TestReadWriteRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(127))

	for width := uint(1); width <= MaxWidth; width++ {
		for offset := uint64(0); offset < 24; offset++ {
			buf := make([]byte, 12)
			// noise around the field must survive the write
			rnd.Read(buf)
			before := append([]byte(nil), buf...)

			value := uint32(rnd.Uint64() & (uint64(1)<<width - 1))
			require.NoError(t, Write(buf, offset, width, value))

			got, err := Read(buf, offset, width)
			require.NoError(t, err)
			require.Equal(t, value, got, "width %d offset %d", width, offset)

			for bit := uint64(0); bit < uint64(len(buf))*8; bit++ {
				if bit >= offset && bit < offset+uint64(width) {
					continue
				}
				a, _ := Read(before, bit, 1)
				b, _ := Read(buf, bit, 1)
				require.Equal(t, a, b, "bit %d changed outside field", bit)
			}
		}
	}
}

func TestWriteRejectsWideValue(t *testing.T) {
	buf := make([]byte, 4)
	err := Write(buf, 0, 4, 16)
	assert.ErrorIs(t, err, ErrValueRange)
	err = Write(buf, 30, 4, 1)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestBitsFor(t *testing.T) {
	assert.Equal(t, BitsFor(0), uint(1))
	assert.Equal(t, BitsFor(1), uint(1))
	assert.Equal(t, BitsFor(2), uint(2))
	assert.Equal(t, BitsFor(255), uint(8))
	assert.Equal(t, BitsFor(256), uint(9))
	assert.Equal(t, BitsFor(^uint32(0)), uint(32))
	assert.Equal(t, ByteLen(0), uint64(0))
	assert.Equal(t, ByteLen(1), uint64(1))
	assert.Equal(t, ByteLen(8), uint64(1))
	assert.Equal(t, ByteLen(9), uint64(2))
}
