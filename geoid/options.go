package geoid

import (
	"github.com/forestrie/go-geodata/datadir"
	"github.com/forestrie/go-geodata/storage"
)

type TableOptions struct {
	opener  storage.Opener
	config  *datadir.Config
	regions []Region
}

type Option func(*TableOptions)

func WithOpener(opener storage.Opener) Option {
	return func(o *TableOptions) {
		o.opener = opener
	}
}

func WithConfig(cfg datadir.Config) Option {
	return func(o *TableOptions) {
		o.config = &cfg
	}
}

// WithRegions replaces the default region list.
func WithRegions(regions []Region) Option {
	return func(o *TableOptions) {
		o.regions = regions
	}
}
