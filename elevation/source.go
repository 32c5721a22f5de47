package elevation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/geocell"
	"github.com/forestrie/go-geodata/grid"
	"github.com/forestrie/go-geodata/storage"
)

type availability uint8

const (
	availabilityUnknown availability = iota
	availabilityOpen
	availabilityUnavailable
)

// Outcome is what one resolution says about a point.
type Outcome uint8

const (
	// OutcomeUnavailable means the resolution's file could not be opened.
	OutcomeUnavailable Outcome = iota
	// OutcomeWater is conclusive, the height is zero.
	OutcomeWater
	// OutcomeUndefined means the resolution has no height here.
	OutcomeUndefined
	// OutcomeValue carries a measured height.
	OutcomeValue
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeWater:
		return "water"
	case OutcomeUndefined:
		return "undefined"
	case OutcomeValue:
		return "value"
	}
	return fmt.Sprintf("elevation.Outcome(%d)", uint8(o))
}

type indexRecord struct {
	address int64
	status  Status
}

// source reads one resolution. It keeps its file open once opened, the index
// record of the last cell asked for, and the grid of the last land cell.
type source struct {
	res   Resolution
	path  string
	state availability

	file    storage.File
	guard   endian.Guard
	version string

	recordIndex int
	recordValid bool
	record      indexRecord

	cache grid.TileCache
}

func newSource(res Resolution, path string) *source {
	return &source{res: res, path: path}
}

// open moves an unknown source to open, or to permanently unavailable when
// its file cannot be opened. A file that opens but has a short preamble fails
// the call and the source stays unknown.
func (s *source) open(opener storage.Opener) error {
	if s.state != availabilityUnknown {
		return nil
	}
	f, err := opener.Open(s.path)
	if err != nil {
		s.state = availabilityUnavailable
		return err
	}
	preamble := make([]byte, PreambleSize)
	if err := storage.ReadFull(f, preamble, 0); err != nil {
		f.Close()
		return fmt.Errorf("%s: version preamble: %w", s.path, err)
	}
	s.file = f
	s.guard = endian.NewGuard(endian.FromPreamble(preamble))
	s.version = strings.TrimRight(string(preamble), "\x00 ")
	s.state = availabilityOpen
	return nil
}

func (s *source) indexRecord(cell geocell.Cell) (indexRecord, error) {
	idx := cell.Index()
	if s.recordValid && s.recordIndex == idx {
		return s.record, nil
	}
	s.recordValid = false

	b := make([]byte, IndexRecordSize)
	if err := storage.ReadFull(s.file, b, IndexOffset(cell)); err != nil {
		return indexRecord{}, fmt.Errorf("%s index %s: %w", s.path, cell, err)
	}
	r := indexRecord{
		address: s.guard.Int64(b[DataAddressFirstByte:]),
		status:  Status(s.guard.Int32(b[StatusFirstByte:])),
	}
	switch r.status {
	case StatusUndefined, StatusWater:
	case StatusLand:
		if r.address < IndexEnd {
			return indexRecord{}, fmt.Errorf("%w: %s index %s: land cell at %d", storage.ErrCorrupt, s.path, cell, r.address)
		}
	default:
		return indexRecord{}, fmt.Errorf("%w: %s index %s: status %d", storage.ErrCorrupt, s.path, cell, r.status)
	}
	s.record = r
	s.recordIndex = idx
	s.recordValid = true
	return r, nil
}

// status reports the recorded status of cell. It must only be called on an
// open source.
func (s *source) status(cell geocell.Cell) (Status, error) {
	r, err := s.indexRecord(cell)
	if err != nil {
		return StatusUndefined, err
	}
	return r.status, nil
}

// sample returns the height of the grid node nearest lat, lon, which lie in
// cell. It must only be called on an open source.
func (s *source) sample(cell geocell.Cell, lat, lon float64) (Outcome, float64, error) {
	r, err := s.indexRecord(cell)
	if err != nil {
		return OutcomeUndefined, 0, err
	}
	switch r.status {
	case StatusWater:
		return OutcomeWater, 0, nil
	case StatusUndefined:
		return OutcomeUndefined, 0, nil
	}

	key := cell.Index()
	if !s.cache.Holds(key) {
		src, err := grid.ReadSourceAt(s.file, s.path, r.address)
		if err != nil {
			return OutcomeUndefined, 0, err
		}
		if err := s.cache.Load(key, src); err != nil {
			return OutcomeUndefined, 0, err
		}
	}

	v, err := s.cache.Nearest(lat, lon)
	if errors.Is(err, storage.ErrNoData) {
		return OutcomeUndefined, 0, nil
	}
	if err != nil {
		return OutcomeUndefined, 0, err
	}
	if v == VoidSample {
		return OutcomeUndefined, 0, nil
	}
	return OutcomeValue, float64(v), nil
}

// close releases the file. An open source goes back to unknown so it can be
// opened again, an unavailable one stays unavailable.
func (s *source) close() error {
	s.recordValid = false
	s.cache.Reset()
	if s.state == availabilityOpen {
		s.state = availabilityUnknown
	}
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// reset closes the source and forgets that it was unavailable.
func (s *source) reset() error {
	err := s.close()
	s.state = availabilityUnknown
	return err
}
