package geoid

// Region is one of the regional geoid grids.
type Region struct {
	Name string
	File string

	// South, North, West and East give the nominal coverage of the region,
	// longitudes east positive. They only decide which failed region to
	// report for a point no loaded grid serves.
	South, North, West, East float64
}

// Covers reports whether lat, lon lies in the nominal coverage of r.
func (r Region) Covers(lat, lon float64) bool {
	return lat >= r.South && lat <= r.North && lon >= r.West && lon <= r.East
}

// Regions are searched in this order, the first whose grid contains a point
// serves it.
var Regions = []Region{
	{Name: "conus", File: "g2012bu0.bin", South: 24, North: 58, West: 230, East: 300},
	{Name: "alaska", File: "g2012ba0.bin", South: 49, North: 72, West: 172, East: 234},
	{Name: "hawaii", File: "g2012bh0.bin", South: 18, North: 23, West: 199, East: 206},
	{Name: "guam", File: "g2012bg0.bin", South: 11, North: 22, West: 143, East: 151},
	{Name: "samoa", File: "g2012bs0.bin", South: -16, North: -12, West: 186, East: 193},
	{Name: "puerto_rico", File: "g2012bp0.bin", South: 15, North: 21, West: 291, East: 296},
}

// normalizeLon maps a longitude onto the east positive range of the grids.
func normalizeLon(lon float64) float64 {
	if lon < 0 {
		return lon + 360
	}
	return lon
}
