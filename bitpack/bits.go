package bitpack

import "fmt"

const (
	// MaxWidth is the widest field Read and Write support.
	MaxWidth = 32
)

// Read returns the width bits starting at bitOffset in buf, most significant
// bit first.
func Read(buf []byte, bitOffset uint64, width uint) (uint32, error) {
	if width == 0 || width > MaxWidth {
		return 0, fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	end := bitOffset + uint64(width)
	if end > uint64(len(buf))*8 {
		return 0, fmt.Errorf("%w: field ends at bit %d, buffer has %d", ErrTruncated, end, uint64(len(buf))*8)
	}

	// at most 5 bytes are spanned (7 bit lead in + 32 bits)
	first := bitOffset >> 3
	last := (end - 1) >> 3
	var acc uint64
	for i := first; i <= last; i++ {
		acc = acc<<8 | uint64(buf[i])
	}
	acc >>= (last+1)*8 - end
	return uint32(acc & (uint64(1)<<width - 1)), nil
}

// Write stores the low width bits of value at bitOffset in buf, most
// significant bit first. Bits outside the field are preserved.
func Write(buf []byte, bitOffset uint64, width uint, value uint32) error {
	if width == 0 || width > MaxWidth {
		return fmt.Errorf("%w: %d", ErrBadWidth, width)
	}
	if width < MaxWidth && value>>width != 0 {
		return fmt.Errorf("%w: %d in %d bits", ErrValueRange, value, width)
	}
	end := bitOffset + uint64(width)
	if end > uint64(len(buf))*8 {
		return fmt.Errorf("%w: field ends at bit %d, buffer has %d", ErrTruncated, end, uint64(len(buf))*8)
	}
	for i := uint(0); i < width; i++ {
		pos := bitOffset + uint64(i)
		mask := byte(0x80) >> (pos & 7)
		if (value>>(width-1-i))&1 == 1 {
			buf[pos>>3] |= mask
		} else {
			buf[pos>>3] &^= mask
		}
	}
	return nil
}

// BitsFor returns the number of bits needed to represent v. Zero needs one bit.
func BitsFor(v uint32) uint {
	n := uint(1)
	for v >>= 1; v != 0; v >>= 1 {
		n++
	}
	return n
}

// ByteLen returns the number of bytes needed to hold nbits.
func ByteLen(nbits uint64) uint64 {
	return (nbits + 7) >> 3
}
