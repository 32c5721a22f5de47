package grid

import (
	"fmt"

	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/storage"
)

// Source is a grid whose header has been read and whose payload is still on
// disk.
type Source struct {
	Path          string
	Header        Header
	Guard         endian.Guard
	PayloadOffset int64

	file  storage.File
	owned bool
}

// Open opens a stand alone grid file and reads its header. The payload is left
// unread. Failure to open the file is ErrSourceUnavailable.
func Open(opener storage.Opener, path string) (*Source, error) {
	f, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := ReadSourceAt(f, path, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.owned = true
	return src, nil
}

// ReadSourceAt reads a grid header embedded at off in a file owned by the
// caller. Closing the returned source does not close f.
func ReadSourceAt(f storage.File, path string, off int64) (*Source, error) {
	b := make([]byte, HeaderSize)
	if err := storage.ReadFull(f, b, off); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	h, g, err := DecodeHeader(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Source{
		Path:          path,
		Header:        h,
		Guard:         g,
		PayloadOffset: off + HeaderSize,
		file:          f,
	}, nil
}

// ReadPayload reads and byte order corrects every sample of the grid.
func (s *Source) ReadPayload() ([]float32, error) {
	if err := s.Header.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, s.Header.PayloadBytes())
	if err := storage.ReadFull(s.file, raw, s.PayloadOffset); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	samples := make([]float32, s.Header.Samples())
	s.Guard.Float32s(samples, raw)
	return samples, nil
}

// Close releases the file if the source opened it.
func (s *Source) Close() error {
	if s.file == nil || !s.owned {
		s.file = nil
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
