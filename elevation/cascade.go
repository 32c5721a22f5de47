package elevation

import (
	"errors"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-geodata/datadir"
	"github.com/forestrie/go-geodata/geocell"
	"github.com/forestrie/go-geodata/storage"
	"github.com/google/uuid"
)

// Result is a conclusive answer from the cascade.
type Result struct {
	Height     float64
	Status     Status
	Resolution Resolution
}

// Cascade looks heights up across the registered resolutions in priority
// order. The first resolution with water or a measured height answers, a
// resolution with no height for the point passes to the next, and a
// resolution whose file cannot be opened is skipped for the life of the
// cascade, or until Reset.
//
// A Cascade is a caller owned context and is not go routine safe.
type Cascade struct {
	id      uuid.UUID
	log     logger.Logger
	root    *datadir.Root
	opener  storage.Opener
	sources []*source

	excludeSecondary bool
}

func NewCascade(log logger.Logger, opts ...Option) (*Cascade, error) {
	options := CascadeOptions{}
	for _, o := range opts {
		o(&options)
	}
	reg := options.registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	c := &Cascade{
		id:               uuid.New(),
		log:              log,
		root:             datadir.NewRoot(options.config),
		opener:           options.opener,
		excludeSecondary: options.excludeSecondary,
	}
	if c.opener == nil {
		c.opener = storage.OSOpener{}
	}
	for _, res := range reg {
		c.sources = append(c.sources, newSource(res, c.root.Config.ElevationPath(res.File)))
	}
	return c, nil
}

func (c *Cascade) ID() uuid.UUID {
	return c.id
}

// SetExcludeSecondary leaves secondary resolutions out of later lookups.
func (c *Cascade) SetExcludeSecondary(exclude bool) {
	c.excludeSecondary = exclude
}

// Resolutions returns the registry the cascade was built with.
func (c *Cascade) Resolutions() Registry {
	reg := make(Registry, 0, len(c.sources))
	for _, s := range c.sources {
		reg = append(reg, s.res)
	}
	return reg
}

// Available reports whether the resolution with the given spacing can be
// read, opening it if it has not been tried yet.
func (c *Cascade) Available(arcSeconds int) bool {
	if c.root.Check(c.log) != nil {
		return false
	}
	for _, s := range c.sources {
		if s.res.ArcSeconds != arcSeconds {
			continue
		}
		if s.res.Disabled {
			return false
		}
		ok, _ := c.openSource(s)
		return ok
	}
	return false
}

// Lookup returns the height at lat, lon from the first resolution with a
// conclusive answer. Water is height zero. When no resolution has a height
// the error is ErrNoData.
//
// A truncated or corrupt cell fails the lookup without consulting coarser
// resolutions, the cascade stays usable.
func (c *Cascade) Lookup(lat, lon float64) (Result, error) {
	if err := c.root.Check(c.log); err != nil {
		return Result{}, err
	}
	cell, err := geocell.Containing(lat, lon)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", storage.ErrNoData, err)
	}
	// grids are stored in the folded longitude range
	if cell.Wrapped {
		lon -= 360
	}

	for _, s := range c.sources {
		if !c.enabled(s) {
			continue
		}
		outcome, height, err := c.sample(s, cell, lat, lon)
		if err != nil {
			return Result{}, err
		}
		switch outcome {
		case OutcomeWater:
			return Result{Height: 0, Status: StatusWater, Resolution: s.res}, nil
		case OutcomeValue:
			return Result{Height: height, Status: StatusLand, Resolution: s.res}, nil
		}
	}
	return Result{}, fmt.Errorf("%w: no elevation at %v, %v", storage.ErrNoData, lat, lon)
}

// LookupCell returns the status of the cell with south west corner lat, lon
// at the first resolution that records it as water or land.
func (c *Cascade) LookupCell(lat, lon int) (Result, error) {
	if err := c.root.Check(c.log); err != nil {
		return Result{}, err
	}
	cell, err := geocell.New(lat, lon)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", storage.ErrNoData, err)
	}
	for _, s := range c.sources {
		if !c.enabled(s) {
			continue
		}
		ok, err := c.openSource(s)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		status, err := s.status(cell)
		if err != nil {
			c.log.Infof("elevation[%s]: %s %s: %v", c.id, s.res, cell, err)
			return Result{}, err
		}
		if status != StatusUndefined {
			return Result{Status: status, Resolution: s.res}, nil
		}
	}
	return Result{}, fmt.Errorf("%w: no elevation for %s", storage.ErrNoData, cell)
}

// Reset closes every resolution and forgets which were unavailable.
func (c *Cascade) Reset() error {
	var errs []error
	for _, s := range c.sources {
		if err := s.reset(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every open file. Resolutions found unavailable stay so.
func (c *Cascade) Close() error {
	var errs []error
	for _, s := range c.sources {
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cascade) enabled(s *source) bool {
	if s.res.Disabled {
		return false
	}
	return !(c.excludeSecondary && s.res.Secondary)
}

// openSource returns true if s is open, trying it if it is not known to be
// unavailable. The error is a failure of this call only, such as a truncated
// preamble, the source is tried again next time.
func (c *Cascade) openSource(s *source) (bool, error) {
	if s.state != availabilityUnknown {
		return s.state == availabilityOpen, nil
	}
	err := s.open(c.opener)
	switch {
	case err == nil:
		c.log.Debugf("elevation[%s]: opened %s, %q (%s)", c.id, s.path, s.version, s.guard.File())
		return true, nil
	case s.state == availabilityUnavailable:
		c.log.Infof("elevation[%s]: %s unavailable: %v", c.id, s.res, err)
		return false, nil
	}
	c.log.Infof("elevation[%s]: %s: %v", c.id, s.res, err)
	return false, err
}

func (c *Cascade) sample(s *source, cell geocell.Cell, lat, lon float64) (Outcome, float64, error) {
	ok, err := c.openSource(s)
	if err != nil {
		return OutcomeUndefined, 0, err
	}
	if !ok {
		return OutcomeUnavailable, 0, nil
	}
	loads := s.cache.Loads()
	outcome, height, err := s.sample(cell, lat, lon)
	if err != nil {
		c.log.Infof("elevation[%s]: %s %s: %v", c.id, s.res, cell, err)
		return outcome, 0, err
	}
	if s.cache.Loads() != loads {
		c.log.Debugf("elevation[%s]: %s loaded %s", c.id, s.res, cell)
	}
	return outcome, height, nil
}
