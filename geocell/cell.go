// Package geocell identifies the one degree cells that coastline and
// elevation data are indexed by.
package geocell

import (
	"errors"
	"fmt"
	"math"
)

const (
	LatCells = 180
	LonCells = 360
	Cells    = LatCells * LonCells

	MinLat = -90
	MaxLat = 89
	MinLon = -180
	MaxLon = 179
)

var ErrCellRange = errors.New("cell outside latitude [-90,89] or longitude [-180,179]")

// Cell is a one degree cell named by the latitude and longitude of its south
// west corner.
//
// Longitudes at or beyond 180 are folded back by 360, Wrapped remembers that
// so results can be returned in the caller's longitude range.
type Cell struct {
	Lat     int
	Lon     int
	Wrapped bool
}

// New returns the cell for the corner lat, lon.
func New(lat, lon int) (Cell, error) {
	c := Cell{Lat: lat, Lon: lon}
	if lon >= 180 {
		c.Lon -= 360
		c.Wrapped = true
	}
	if c.Lat < MinLat || c.Lat > MaxLat || c.Lon < MinLon || c.Lon > MaxLon {
		return Cell{}, fmt.Errorf("%w: %d, %d", ErrCellRange, lat, lon)
	}
	return c, nil
}

// Containing returns the cell containing the point lat, lon.
func Containing(lat, lon float64) (Cell, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return Cell{}, fmt.Errorf("%w: NaN coordinate", ErrCellRange)
	}
	ilat := int(math.Floor(lat))
	// the north pole belongs to the last row
	if lat == 90 {
		ilat = MaxLat
	}
	return New(ilat, int(math.Floor(lon)))
}

// Biased returns the non negative row and column of the cell.
func (c Cell) Biased() (int, int) {
	return c.Lat - MinLat, c.Lon - MinLon
}

// Index is the position of the cell in an index laid out west to east within
// a row, rows south to north.
func (c Cell) Index() int {
	row, col := c.Biased()
	return row*LonCells + col
}

// Same reports whether c and o are the same cell, regardless of wrapping.
func (c Cell) Same(o Cell) bool {
	return c.Lat == o.Lat && c.Lon == o.Lon
}

// OutputLon maps a longitude inside the cell back to the caller's range.
func (c Cell) OutputLon(lon float64) float64 {
	if c.Wrapped {
		return lon + 360
	}
	return lon
}

func (c Cell) String() string {
	ns, ew := 'N', 'E'
	lat, lon := c.Lat, c.Lon
	if lat < 0 {
		ns, lat = 'S', -lat
	}
	if lon < 0 {
		ew, lon = 'W', -lon
	}
	return fmt.Sprintf("%c%02d%c%03d", ns, lat, ew, lon)
}
