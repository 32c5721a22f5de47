package datadir

import (
	"github.com/datatrails/go-datatrails-common/logger"
)

// Root is the configuration a store resolved when it was created. A missing
// configuration is reported to the log once, every later check fails the same
// way without further I/O.
type Root struct {
	Config   Config
	err      error
	reported bool
}

// NewRoot binds cfg, or the environment when cfg is nil.
func NewRoot(cfg *Config) *Root {
	r := &Root{}
	if cfg != nil {
		r.Config = *cfg
		r.err = cfg.Check()
		return r
	}
	r.Config, r.err = FromEnv()
	return r
}

// Check returns the configuration error, if any.
func (r *Root) Check(log logger.Logger) error {
	if r.err == nil {
		return nil
	}
	if !r.reported && log != nil {
		log.Infof("geodata configuration: %v", r.err)
	}
	r.reported = true
	return r.err
}
