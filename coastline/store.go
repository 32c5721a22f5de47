package coastline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-geodata/bitpack"
	"github.com/forestrie/go-geodata/datadir"
	"github.com/forestrie/go-geodata/endian"
	"github.com/forestrie/go-geodata/geocell"
	"github.com/forestrie/go-geodata/storage"
	"github.com/google/uuid"
)

// IndexRecord is the cell index entry for one cell.
type IndexRecord struct {
	DataAddress int32
	Segments    int32
	Vertices    int32
}

// Empty reports whether the cell has no data block.
func (r IndexRecord) Empty() bool {
	return r.DataAddress == 0
}

// CellInfo describes the cell made current by Select.
type CellInfo struct {
	Cell     geocell.Cell
	Segments int
	Vertices int
}

// Store decodes coastline segments one cell at a time.
//
// It keeps the file of the last selected source type open, and the index
// record and read position of the last selected cell. Every segment returned
// is newly allocated and owned by the caller.
//
// The implementation assumes single threaded access. Independent Stores share
// nothing and may be used side by side.
type Store struct {
	id     uuid.UUID
	log    logger.Logger
	root   *datadir.Root
	opener storage.Opener

	// the open source file
	kind    Kind
	file    storage.File
	guard   endian.Guard
	version string

	// the selected cell
	cellLoaded   bool
	cell         geocell.Cell
	record       IndexRecord
	segmentsRead int
	verticesRead int
}

func NewStore(log logger.Logger, opts ...Option) *Store {
	options := StoreOptions{}
	for _, o := range opts {
		o(&options)
	}
	s := &Store{
		id:     uuid.New(),
		log:    log,
		root:   datadir.NewRoot(options.config),
		opener: options.opener,
	}
	if s.opener == nil {
		s.opener = storage.OSOpener{}
	}
	return s
}

// ID distinguishes independent stores in the log.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Version returns the version preamble of the open source file.
func (s *Store) Version() string {
	return s.version
}

// CheckAvailable reports whether the file for kind can be opened.
func (s *Store) CheckAvailable(kind Kind) bool {
	if s.root.Check(s.log) != nil || !kind.Valid() {
		return false
	}
	if s.file != nil && s.kind == kind {
		return true
	}
	f, err := s.opener.Open(s.root.Config.CoastlinePath(kind.FileName()))
	if err != nil {
		s.log.Debugf("coastline[%s]: %s unavailable: %v", s.id, kind, err)
		return false
	}
	f.Close()
	return true
}

// Select makes the cell with south west corner lat, lon of the source kind
// current, positioning the store on its first segment.
func (s *Store) Select(kind Kind, lat, lon int) (CellInfo, error) {
	if err := s.root.Check(s.log); err != nil {
		return CellInfo{}, err
	}
	if !kind.Valid() {
		return CellInfo{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	cell, err := geocell.New(lat, lon)
	if err != nil {
		return CellInfo{}, fmt.Errorf("%w: %w", storage.ErrNoData, err)
	}

	if s.file == nil || s.kind != kind {
		if err := s.openSource(kind); err != nil {
			return CellInfo{}, err
		}
	}

	if !s.cellLoaded || !s.cell.Same(cell) {
		s.resetCell()
		record, err := s.readIndexRecord(cell)
		if err != nil {
			return CellInfo{}, err
		}
		s.record = record
	}
	s.cell = cell
	s.cellLoaded = true
	s.segmentsRead = 0
	s.verticesRead = 0

	if !s.record.Empty() {
		if _, err := s.file.Seek(int64(s.record.DataAddress), io.SeekStart); err != nil {
			s.resetCell()
			return CellInfo{}, err
		}
	}
	return s.CellInfo(), nil
}

// CellInfo describes the selected cell. It is the zero value when no cell is selected.
func (s *Store) CellInfo() CellInfo {
	if !s.cellLoaded {
		return CellInfo{}
	}
	info := CellInfo{Cell: s.cell}
	if !s.record.Empty() {
		info.Segments = int(s.record.Segments)
		info.Vertices = int(s.record.Vertices)
	}
	return info
}

// NextSegment decodes the next segment of the selected cell. When the cell is
// exhausted it returns ErrEndOfCell and forgets the cell, so the next Select
// starts clean.
//
// A truncated or corrupt record fails the call and also forgets the cell, the
// store remains usable for other cells.
func (s *Store) NextSegment() (Segment, error) {
	if !s.cellLoaded {
		return nil, ErrNoCellSelected
	}
	if s.record.Empty() || s.segmentsRead >= int(s.record.Segments) {
		if !s.record.Empty() && s.verticesRead != int(s.record.Vertices) {
			s.log.Infof("coastline[%s]: %s %s: decoded %d vertices, index records %d",
				s.id, s.kind, s.cell, s.verticesRead, s.record.Vertices)
		}
		s.resetCell()
		return nil, ErrEndOfCell
	}

	seg, err := s.readSegment()
	if err != nil {
		s.log.Infof("coastline[%s]: %s %s segment %d: %v", s.id, s.kind, s.cell, s.segmentsRead, err)
		s.resetCell()
		return nil, err
	}
	s.segmentsRead++
	s.verticesRead += len(seg)
	return seg, nil
}

// ReadCell selects a cell and returns all of its segments.
func (s *Store) ReadCell(kind Kind, lat, lon int) ([]Segment, error) {
	info, err := s.Select(kind, lat, lon)
	if err != nil {
		return nil, err
	}
	segs := make([]Segment, 0, info.Segments)
	for {
		seg, err := s.NextSegment()
		if errors.Is(err, ErrEndOfCell) {
			return segs, nil
		}
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
}

// Close releases the open source file and forgets the selected cell.
func (s *Store) Close() error {
	s.resetCell()
	s.version = ""
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *Store) resetCell() {
	s.cellLoaded = false
	s.cell = geocell.Cell{}
	s.record = IndexRecord{}
	s.segmentsRead = 0
	s.verticesRead = 0
}

func (s *Store) openSource(kind Kind) error {
	if err := s.Close(); err != nil {
		s.log.Infof("coastline[%s]: closing %s: %v", s.id, s.kind, err)
	}

	path := s.root.Config.CoastlinePath(kind.FileName())
	f, err := s.opener.Open(path)
	if err != nil {
		s.log.Infof("coastline[%s]: %s: %v", s.id, kind, err)
		return err
	}
	preamble := make([]byte, PreambleSize)
	if err := storage.ReadNext(f, preamble); err != nil {
		f.Close()
		return fmt.Errorf("%s: version preamble: %w", path, err)
	}

	s.file = f
	s.kind = kind
	s.guard = endian.NewGuard(endian.FromPreamble(preamble))
	s.version = strings.TrimRight(string(preamble), "\x00 ")
	s.log.Debugf("coastline[%s]: opened %s, %q (%s)", s.id, path, s.version, s.guard.File())
	return nil
}

func (s *Store) readIndexRecord(cell geocell.Cell) (IndexRecord, error) {
	b := make([]byte, IndexRecordSize)
	if err := storage.ReadFull(s.file, b, IndexOffset(cell)); err != nil {
		return IndexRecord{}, fmt.Errorf("%s index %s: %w", s.kind, cell, err)
	}
	r := IndexRecord{
		DataAddress: s.guard.Int32(b[DataAddressFirstByte:]),
		Segments:    s.guard.Int32(b[SegmentsFirstByte:]),
		Vertices:    s.guard.Int32(b[VerticesFirstByte:]),
	}
	if r.Empty() {
		return r, nil
	}
	if r.DataAddress < IndexEnd || r.Segments < 0 || r.Vertices < 0 {
		return IndexRecord{}, fmt.Errorf("%w: %s index %s: %+v", storage.ErrCorrupt, s.kind, cell, r)
	}
	return r, nil
}

// readSegment reads exactly one packed record from the current position:
// first the width descriptors, then enough to hold the count, then the rest.
func (s *Store) readSegment() (Segment, error) {
	head := make([]byte, 2, 8)
	if err := storage.ReadNext(s.file, head); err != nil {
		return nil, err
	}
	h, err := decodeWidths(head)
	if err != nil {
		return nil, err
	}

	countBytes := int(bitpack.ByteLen(h.countEndBits()))
	head = head[:countBytes]
	if err := storage.ReadNext(s.file, head[2:]); err != nil {
		return nil, err
	}
	if err := h.decodeCount(head); err != nil {
		return nil, err
	}

	buf := make([]byte, bitpack.ByteLen(h.bits()))
	copy(buf, head)
	if err := storage.ReadNext(s.file, buf[countBytes:]); err != nil {
		return nil, err
	}
	return DecodeSegment(buf, s.cell)
}
