package grid

import (
	"fmt"
	"math"

	"github.com/forestrie/go-geodata/storage"
)

// TileCache keeps at most one tile payload resident.
//
// The payload is valid only for the key it was loaded for. Loading a
// different key discards the previous payload before reading the new one,
// loading the same key again does not touch the backing file.
//
// It is not go routine safe.
type TileCache struct {
	key     int
	valid   bool
	header  Header
	samples []float32
	loads   int
}

// Holds reports whether the payload for key is resident.
func (c *TileCache) Holds(key int) bool {
	return c.valid && c.key == key
}

// Key returns the key of the resident payload, and false if there is none.
func (c *TileCache) Key() (int, bool) {
	return c.key, c.valid
}

// Loads counts the payload reads performed by the cache.
func (c *TileCache) Loads() int {
	return c.loads
}

func (c *TileCache) Header() Header {
	return c.header
}

// Load makes the payload of src resident under key.
func (c *TileCache) Load(key int, src *Source) error {
	if c.Holds(key) {
		return nil
	}
	c.Reset()
	samples, err := src.ReadPayload()
	if err != nil {
		return err
	}
	c.key = key
	c.header = src.Header
	c.samples = samples
	c.valid = true
	c.loads++
	return nil
}

// Reset discards the resident payload.
func (c *TileCache) Reset() {
	c.valid = false
	c.samples = nil
	c.header = Header{}
}

// At returns the sample at row, col. No range checks are made.
func (c *TileCache) At(row, col int) float32 {
	return c.samples[row*int(c.header.Cols)+col]
}

// position returns the cell containing v along an axis with n samples, and
// the fractional offset of v within it.
func position(v, origin, spacing float64, n int32) (int, float64, bool) {
	f := (v - origin) / spacing
	if f < -BoundsEpsilon || f > float64(n-1)+BoundsEpsilon {
		return 0, 0, false
	}
	i := int(math.Floor(f))
	i = max(0, min(i, int(n)-2))
	return i, f - float64(i), true
}

// Bilinear interpolates the resident tile at lat, lon.
//
// Latitude is interpolated first, along the west and then the east edge of
// the surrounding cell, and the two results are then interpolated along
// longitude. Historical outputs depend on this order.
func (c *TileCache) Bilinear(lat, lon float64) (float64, error) {
	if !c.valid {
		return 0, fmt.Errorf("%w: no tile resident", storage.ErrNoData)
	}
	h := c.header
	row, ty, ok := position(lat, h.LatOrigin, h.LatSpacing, h.Rows)
	if !ok {
		return 0, fmt.Errorf("%w: latitude %v outside tile", storage.ErrNoData, lat)
	}
	col, tx, ok := position(lon, h.LonOrigin, h.LonSpacing, h.Cols)
	if !ok {
		return 0, fmt.Errorf("%w: longitude %v outside tile", storage.ErrNoData, lon)
	}

	sw := float64(c.At(row, col))
	nw := float64(c.At(row+1, col))
	se := float64(c.At(row, col+1))
	ne := float64(c.At(row+1, col+1))
	return interpolate(sw, nw, se, ne, ty, tx), nil
}

func interpolate(sw, nw, se, ne, ty, tx float64) float64 {
	west := sw + (nw-sw)*ty
	east := se + (ne-se)*ty
	return west + (east-west)*tx
}

// Nearest returns the sample of the grid node closest to lat, lon.
func (c *TileCache) Nearest(lat, lon float64) (float32, error) {
	if !c.valid {
		return 0, fmt.Errorf("%w: no tile resident", storage.ErrNoData)
	}
	h := c.header
	row, ty, ok := position(lat, h.LatOrigin, h.LatSpacing, h.Rows)
	if !ok {
		return 0, fmt.Errorf("%w: latitude %v outside tile", storage.ErrNoData, lat)
	}
	col, tx, ok := position(lon, h.LonOrigin, h.LonSpacing, h.Cols)
	if !ok {
		return 0, fmt.Errorf("%w: longitude %v outside tile", storage.ErrNoData, lon)
	}
	if ty >= 0.5 {
		row++
	}
	if tx >= 0.5 {
		col++
	}
	return c.At(row, col), nil
}
