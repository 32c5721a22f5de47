package elevation

import (
	"github.com/forestrie/go-geodata/datadir"
	"github.com/forestrie/go-geodata/storage"
)

type CascadeOptions struct {
	opener           storage.Opener
	config           *datadir.Config
	registry         Registry
	excludeSecondary bool
}

type Option func(*CascadeOptions)

func WithOpener(opener storage.Opener) Option {
	return func(o *CascadeOptions) {
		o.opener = opener
	}
}

func WithConfig(cfg datadir.Config) Option {
	return func(o *CascadeOptions) {
		o.config = &cfg
	}
}

// WithRegistry replaces DefaultRegistry.
func WithRegistry(reg Registry) Option {
	return func(o *CascadeOptions) {
		o.registry = reg
	}
}

// WithExcludeSecondary sets the initial SetExcludeSecondary state.
func WithExcludeSecondary(exclude bool) Option {
	return func(o *CascadeOptions) {
		o.excludeSecondary = exclude
	}
}
