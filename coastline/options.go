package coastline

import (
	"github.com/forestrie/go-geodata/datadir"
	"github.com/forestrie/go-geodata/storage"
)

type StoreOptions struct {
	opener storage.Opener
	config *datadir.Config
}

type Option func(*StoreOptions)

// WithOpener sets how coastline files are opened, local files by default.
func WithOpener(opener storage.Opener) Option {
	return func(o *StoreOptions) {
		o.opener = opener
	}
}

// WithConfig sets the data root, the environment is used by default.
func WithConfig(cfg datadir.Config) Option {
	return func(o *StoreOptions) {
		o.config = &cfg
	}
}
