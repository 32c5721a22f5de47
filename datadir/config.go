// Package datadir locates the geodata files from the process environment.
package datadir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forestrie/go-geodata/storage"
)

const (
	// EnvRoot names the environment variable holding the data root.
	EnvRoot = "GEODATA_ROOT"

	CoastlineSubdir = "wvs_wdb"
	GeoidSubdir     = "geoid_data"
	ElevationSubdir = "srtm_data"
)

type Config struct {
	// Root is the data root directory, or a blob path prefix when the stores
	// use a storage.BlobOpener.
	Root string
}

// FromEnv reads the data root from EnvRoot.
func FromEnv() (Config, error) {
	root, ok := os.LookupEnv(EnvRoot)
	if !ok || strings.TrimSpace(root) == "" {
		return Config{}, fmt.Errorf("%w: %s is not set", storage.ErrConfigMissing, EnvRoot)
	}
	return Config{Root: root}, nil
}

// Check returns ErrConfigMissing if the configuration has no root.
func (c Config) Check() error {
	if c.Root == "" {
		return fmt.Errorf("%w: empty data root", storage.ErrConfigMissing)
	}
	return nil
}

func (c Config) CoastlineDir() string { return filepath.Join(c.Root, CoastlineSubdir) }
func (c Config) GeoidDir() string     { return filepath.Join(c.Root, GeoidSubdir) }
func (c Config) ElevationDir() string { return filepath.Join(c.Root, ElevationSubdir) }

// CoastlinePath returns the path of a named coastline file.
func (c Config) CoastlinePath(name string) string {
	return filepath.Join(c.CoastlineDir(), name)
}

// GeoidPath returns the path of a named geoid grid file.
func (c Config) GeoidPath(name string) string {
	return filepath.Join(c.GeoidDir(), name)
}

// ElevationPath returns the path of a named elevation file.
func (c Config) ElevationPath(name string) string {
	return filepath.Join(c.ElevationDir(), name)
}
