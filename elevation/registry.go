package elevation

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Resolution describes one elevation source.
type Resolution struct {
	// ArcSeconds is the sample spacing and names the resolution.
	ArcSeconds int    `yaml:"arcseconds"`
	File       string `yaml:"file"`
	// Priority orders the cascade, lowest first.
	Priority int `yaml:"priority"`
	// Secondary sources can be left out with SetExcludeSecondary.
	Secondary bool `yaml:"secondary"`
	Disabled  bool `yaml:"disabled"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%d\"", r.ArcSeconds)
}

// Registry lists the elevation sources in cascade order.
type Registry []Resolution

// DefaultRegistry is the standard SRTM set.
func DefaultRegistry() Registry {
	return Registry{
		{ArcSeconds: 1, File: "srtm1.cte", Priority: 0},
		{ArcSeconds: 2, File: "srtm2.cte", Priority: 1, Secondary: true},
		{ArcSeconds: 3, File: "srtm3.cte", Priority: 2},
		{ArcSeconds: 30, File: "srtm30.cte", Priority: 3},
	}
}

type registryDocument struct {
	Resolutions []Resolution `yaml:"resolutions"`
}

// LoadRegistry reads a registry from YAML of the form
//
//	resolutions:
//	  - arcseconds: 1
//	    file: srtm1.cte
//	    priority: 0
//
// The result is sorted into cascade order and validated.
func LoadRegistry(r io.Reader) (Registry, error) {
	var doc registryDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}
	reg := Registry(doc.Resolutions)
	reg.sort()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r Registry) sort() {
	sort.SliceStable(r, func(i, j int) bool { return r[i].Priority < r[j].Priority })
}

// Validate requires a non empty registry in priority order with distinct
// resolutions and files.
func (r Registry) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no resolutions", ErrInvalidRegistry)
	}
	resolutions := map[int]bool{}
	files := map[string]bool{}
	for i, res := range r {
		if res.ArcSeconds <= 0 || res.File == "" {
			return fmt.Errorf("%w: resolution %d needs arcseconds and a file", ErrInvalidRegistry, i)
		}
		if resolutions[res.ArcSeconds] || files[res.File] {
			return fmt.Errorf("%w: %s %s listed twice", ErrInvalidRegistry, res, res.File)
		}
		if i > 0 && res.Priority < r[i-1].Priority {
			return fmt.Errorf("%w: %s is out of priority order", ErrInvalidRegistry, res)
		}
		resolutions[res.ArcSeconds] = true
		files[res.File] = true
	}
	return nil
}

// Find returns the position of the resolution with the given spacing.
func (r Registry) Find(arcSeconds int) (int, bool) {
	for i, res := range r {
		if res.ArcSeconds == arcSeconds {
			return i, true
		}
	}
	return 0, false
}
