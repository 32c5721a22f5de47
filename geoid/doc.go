// Package geoid serves geoid height corrections from the regional GEOID12
// grids. Each region is a stand alone grid file under the geoid directory of
// the data root; only the grid of the region last looked up is resident.
package geoid
