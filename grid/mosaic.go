package grid

import (
	"errors"
	"fmt"

	"github.com/forestrie/go-geodata/storage"
)

// BoundsEpsilon is the tolerance, in degrees, applied to grid edges when
// deciding which grid owns a point.
const BoundsEpsilon = 1.0e-7

// Mosaic serves point lookups from a fixed set of independently stored grids,
// keeping only the grid last looked up resident. The key of a grid is its
// index in the set. Missing grids are nil and never selected.
type Mosaic struct {
	sources []*Source
	cache   TileCache
}

func NewMosaic(sources []*Source) *Mosaic {
	return &Mosaic{sources: sources}
}

// Locate returns the key of the first grid whose selection box contains the
// point.
func (m *Mosaic) Locate(lat, lon float64) (int, bool) {
	for i, src := range m.sources {
		if src == nil {
			continue
		}
		if src.Header.Contains(lat, lon, BoundsEpsilon) {
			return i, true
		}
	}
	return 0, false
}

// Load makes the grid covering the point resident and returns its key.
func (m *Mosaic) Load(lat, lon float64) (int, error) {
	key, ok := m.Locate(lat, lon)
	if !ok {
		return 0, fmt.Errorf("%w: %v, %v is outside every grid", storage.ErrNoData, lat, lon)
	}
	if err := m.cache.Load(key, m.sources[key]); err != nil {
		return 0, err
	}
	return key, nil
}

// Bilinear interpolates the grid covering the point.
func (m *Mosaic) Bilinear(lat, lon float64) (float64, error) {
	if _, err := m.Load(lat, lon); err != nil {
		return 0, err
	}
	return m.cache.Bilinear(lat, lon)
}

// Cache exposes the resident tile.
func (m *Mosaic) Cache() *TileCache {
	return &m.cache
}

// Source returns the grid for key, or nil.
func (m *Mosaic) Source(key int) *Source {
	if key < 0 || key >= len(m.sources) {
		return nil
	}
	return m.sources[key]
}

// Close discards the resident tile and closes every grid.
func (m *Mosaic) Close() error {
	m.cache.Reset()
	var errs []error
	for i, src := range m.sources {
		if src == nil {
			continue
		}
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
		m.sources[i] = nil
	}
	return errors.Join(errs...)
}
