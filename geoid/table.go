package geoid

import (
	"errors"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-geodata/datadir"
	"github.com/forestrie/go-geodata/grid"
	"github.com/forestrie/go-geodata/storage"
	"github.com/google/uuid"
)

// Table looks up geoid corrections. The region grids are opened, headers
// only, on the first lookup and stay open until Close.
type Table struct {
	id      uuid.UUID
	log     logger.Logger
	root    *datadir.Root
	opener  storage.Opener
	regions []Region

	mosaic *grid.Mosaic
	// regionErrs holds the open failure of each region, nil for those open.
	regionErrs []error
	opened     int
}

func NewTable(log logger.Logger, opts ...Option) *Table {
	options := TableOptions{regions: Regions}
	for _, o := range opts {
		o(&options)
	}
	t := &Table{
		id:      uuid.New(),
		log:     log,
		root:    datadir.NewRoot(options.config),
		opener:  options.opener,
		regions: options.regions,
	}
	if t.opener == nil {
		t.opener = storage.OSOpener{}
	}
	return t
}

func (t *Table) ID() uuid.UUID {
	return t.id
}

// Correction returns the geoid height at lat, lon interpolated from the grid
// of the first region containing the point.
//
// A grid serves the points from its south and west edges up to, but not on,
// its north and east edges. A point no grid serves is ErrNoData, unless it
// falls in the coverage of a region that failed to open, then that failure is
// returned. With no region open at all the error is ErrSourceUnavailable.
func (t *Table) Correction(lat, lon float64) (float64, error) {
	if err := t.open(); err != nil {
		return 0, err
	}
	lon = normalizeLon(lon)
	v, err := t.mosaic.Bilinear(lat, lon)
	if err == nil || !errors.Is(err, storage.ErrNoData) {
		return v, err
	}
	if ferr := t.failure(lat, lon); ferr != nil {
		return 0, ferr
	}
	return 0, err
}

// Region returns the region that serves lat, lon, if any.
func (t *Table) Region(lat, lon float64) (Region, bool) {
	if err := t.open(); err != nil {
		return Region{}, false
	}
	key, ok := t.mosaic.Locate(lat, normalizeLon(lon))
	if !ok {
		return Region{}, false
	}
	return t.regions[key], true
}

// Loads is the number of region payloads read so far.
func (t *Table) Loads() int {
	if t.mosaic == nil {
		return 0
	}
	return t.mosaic.Cache().Loads()
}

// Reset discards the resident grid, the region files stay open.
func (t *Table) Reset() {
	if t.mosaic != nil {
		t.mosaic.Cache().Reset()
	}
}

// Close releases every region file. A later lookup opens them again.
func (t *Table) Close() error {
	if t.mosaic == nil {
		return nil
	}
	err := t.mosaic.Close()
	t.mosaic = nil
	t.regionErrs = nil
	t.opened = 0
	return err
}

func (t *Table) open() error {
	if err := t.root.Check(t.log); err != nil {
		return err
	}
	if t.mosaic != nil {
		return nil
	}
	sources := make([]*grid.Source, len(t.regions))
	t.regionErrs = make([]error, len(t.regions))
	t.opened = 0
	for i, r := range t.regions {
		src, err := grid.Open(t.opener, t.root.Config.GeoidPath(r.File))
		if err != nil {
			t.log.Infof("geoid[%s]: region %s unavailable: %v", t.id, r.Name, err)
			t.regionErrs[i] = err
			continue
		}
		t.log.Debugf("geoid[%s]: region %s %+v (%s)", t.id, r.Name, src.Header, src.Guard.File())
		sources[i] = src
		t.opened++
	}
	t.mosaic = grid.NewMosaic(sources)
	return nil
}

// failure returns the open error of the first failed region covering lat,
// lon, or ErrSourceUnavailable when no region opened.
func (t *Table) failure(lat, lon float64) error {
	for i, r := range t.regions {
		if t.regionErrs[i] != nil && r.Covers(lat, lon) {
			return fmt.Errorf("geoid region %s: %w", r.Name, t.regionErrs[i])
		}
	}
	if t.opened == 0 {
		return fmt.Errorf("%w: none of the %d geoid regions could be opened", storage.ErrSourceUnavailable, len(t.regions))
	}
	return nil
}
