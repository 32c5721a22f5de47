package elevation

import (
	"errors"
)

var (
	ErrUnknownResolution = errors.New("unknown elevation resolution")
	ErrInvalidRegistry   = errors.New("invalid elevation resolution registry")
)
