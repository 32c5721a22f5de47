package bitpack

import (
	"errors"

	"github.com/forestrie/go-geodata/storage"
)

var (
	// ErrTruncated is returned when a field extends past the end of the buffer
	ErrTruncated = storage.ErrTruncated

	ErrBadWidth    = errors.New("bit field width must be between 1 and 32")
	ErrValueRange  = errors.New("value does not fit in the bit field")
	ErrBiasedRange = errors.New("biased value does not fit in the bit field")
)
