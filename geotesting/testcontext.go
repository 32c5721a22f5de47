package geotesting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-geodata/datadir"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log    logger.Logger
	Config datadir.Config
	Opener *CountingOpener
	T      *testing.T
}

type TestConfig struct {
	TestLabelPrefix string
	// LogLevel defaults to NOOP
	LogLevel string
}

// NewTestContext creates a data root under t.TempDir with the standard
// subdirectories, and an opener that counts file access.
func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T: t,
	}
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	c.Config = datadir.Config{Root: t.TempDir()}
	for _, dir := range []string{c.Config.CoastlineDir(), c.Config.GeoidDir(), c.Config.ElevationDir()} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	c.Opener = NewCountingOpener(nil)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// WriteFile writes data to path, creating parent directories, and returns path.
func (c *TestContext) WriteFile(path string, data []byte) string {
	require.NoError(c.T, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(c.T, os.WriteFile(path, data, 0644))
	return path
}

// RemoveFile deletes path, it is not an error if it does not exist.
func (c *TestContext) RemoveFile(path string) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		require.NoError(c.T, err)
	}
}
