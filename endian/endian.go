// Package endian reads multi-byte values from files whose byte order was
// recorded when the file was written, and which may differ from the host.
//
// Values are first read in host order, exactly as a raw memory copy of the
// file would see them, and then corrected by a Guard when the file order and
// the host order differ.
package endian

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/forestrie/go-geodata/storage"
)

// Order is a byte order recorded in a file.
type Order uint8

const (
	BigEndian Order = iota
	LittleEndian
)

const (
	tagBig    = "[big endian]"
	tagLittle = "[little endian]"
)

// nativeBigEndian is fixed at start up from the layout of a known constant.
var nativeBigEndian = binary.NativeEndian.Uint16([]byte{0x01, 0x02}) == 0x0102

// NativeIsBigEndian reports whether the host stores the most significant byte first.
func NativeIsBigEndian() bool {
	return nativeBigEndian
}

// Native returns the host byte order.
func Native() Order {
	if nativeBigEndian {
		return BigEndian
	}
	return LittleEndian
}

func (o Order) String() string {
	if o == LittleEndian {
		return "little endian"
	}
	return "big endian"
}

// ByteOrder returns the encoding/binary order used to write files in o.
func (o Order) ByteOrder() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Opposite returns the other byte order.
func (o Order) Opposite() Order {
	if o == LittleEndian {
		return BigEndian
	}
	return LittleEndian
}

// Tag is the token written into a version preamble to record o.
func (o Order) Tag() string {
	if o == LittleEndian {
		return tagLittle
	}
	return tagBig
}

// FromPreamble returns the byte order recorded in an ASCII version preamble.
// Preambles without a tag are big endian.
func FromPreamble(preamble []byte) Order {
	if bytes.Contains(bytes.ToLower(preamble), []byte(tagLittle)) {
		return LittleEndian
	}
	return BigEndian
}

// Guard corrects values read in host order from a file written in another order.
type Guard struct {
	file Order
	swap bool
}

func NewGuard(file Order) Guard {
	return Guard{file: file, swap: (file == BigEndian) != nativeBigEndian}
}

// DetectFlag32 establishes the file order from a 32 bit marker field whose
// value is known to be want when read in the order it was written.
func DetectFlag32(raw []byte, want uint32) (Guard, error) {
	v := binary.NativeEndian.Uint32(raw)
	switch {
	case v == want:
		return NewGuard(Native()), nil
	case bits.ReverseBytes32(v) == want:
		return NewGuard(Native().Opposite()), nil
	}
	return Guard{}, fmt.Errorf("%w: endian flag %#x, expected %#x in either byte order", storage.ErrCorrupt, v, want)
}

// File is the byte order of the file the guard was made for.
func (g Guard) File() Order { return g.file }

// Swaps reports whether values are byte swapped on correction.
func (g Guard) Swaps() bool { return g.swap }

func (g Guard) Correct16(v uint16) uint16 {
	if g.swap {
		return bits.ReverseBytes16(v)
	}
	return v
}

func (g Guard) Correct32(v uint32) uint32 {
	if g.swap {
		return bits.ReverseBytes32(v)
	}
	return v
}

func (g Guard) Correct64(v uint64) uint64 {
	if g.swap {
		return bits.ReverseBytes64(v)
	}
	return v
}

func (g Guard) Uint16(b []byte) uint16 { return g.Correct16(binary.NativeEndian.Uint16(b)) }
func (g Guard) Uint32(b []byte) uint32 { return g.Correct32(binary.NativeEndian.Uint32(b)) }
func (g Guard) Uint64(b []byte) uint64 { return g.Correct64(binary.NativeEndian.Uint64(b)) }
func (g Guard) Int16(b []byte) int16   { return int16(g.Uint16(b)) }
func (g Guard) Int32(b []byte) int32   { return int32(g.Uint32(b)) }
func (g Guard) Int64(b []byte) int64   { return int64(g.Uint64(b)) }

func (g Guard) Float32(b []byte) float32 { return math.Float32frombits(g.Uint32(b)) }
func (g Guard) Float64(b []byte) float64 { return math.Float64frombits(g.Uint64(b)) }

// Float32s corrects every sample in src into dst. len(src) must be at least
// 4*len(dst).
func (g Guard) Float32s(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = g.Float32(src[i*4 : i*4+4])
	}
}
