package grid

import (
	"fmt"
	"io"
	"math"

	"github.com/forestrie/go-geodata/endian"
)

// Encode returns a complete grid file, header and payload, in byte order o.
func Encode(h Header, o endian.Order, samples []float32) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(samples) != h.Samples() {
		return nil, fmt.Errorf("grid of %dx%d needs %d samples, have %d", h.Rows, h.Cols, h.Samples(), len(samples))
	}
	b := make([]byte, HeaderSize+len(samples)*SampleSize)
	copy(b, EncodeHeader(h, o))
	bo := o.ByteOrder()
	for i, v := range samples {
		bo.PutUint32(b[HeaderSize+i*SampleSize:], math.Float32bits(v))
	}
	return b, nil
}

// Write writes a complete grid file to w.
func Write(w io.Writer, h Header, o endian.Order, samples []float32) error {
	b, err := Encode(h, o, samples)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
