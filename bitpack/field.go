package bitpack

import "fmt"

// Field is a fixed width unsigned field holding a biased signed value.
//
// The stored value is v + Bias, decoding subtracts Bias again.
type Field struct {
	Width uint
	Bias  int64
}

// Encode returns the stored representation of v.
func (f Field) Encode(v int64) (uint32, error) {
	stored := v + f.Bias
	if stored < 0 || stored > int64(uint64(1)<<f.Width-1) {
		return 0, fmt.Errorf("%w: %d (bias %d, width %d)", ErrBiasedRange, v, f.Bias, f.Width)
	}
	return uint32(stored), nil
}

// Decode recovers the value from its stored representation.
func (f Field) Decode(raw uint32) int64 {
	return int64(raw) - f.Bias
}

// Read decodes the field found at bitOffset.
func (f Field) Read(buf []byte, bitOffset uint64) (int64, error) {
	raw, err := Read(buf, bitOffset, f.Width)
	if err != nil {
		return 0, err
	}
	return f.Decode(raw), nil
}

// Write encodes v at bitOffset.
func (f Field) Write(buf []byte, bitOffset uint64, v int64) error {
	raw, err := f.Encode(v)
	if err != nil {
		return err
	}
	return Write(buf, bitOffset, f.Width, raw)
}
