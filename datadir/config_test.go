package datadir

import (
	"path/filepath"
	"testing"

	"github.com/forestrie/go-geodata/storage"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvRoot, "")
	_, err := FromEnv()
	require.ErrorIs(t, err, storage.ErrConfigMissing)

	root := t.TempDir()
	t.Setenv(EnvRoot, root)
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Check())
	require.Equal(t, filepath.Join(root, "wvs_wdb", "wvs1.ihc"), cfg.CoastlinePath("wvs1.ihc"))
	require.Equal(t, filepath.Join(root, "geoid_data"), cfg.GeoidDir())
	require.Equal(t, filepath.Join(root, "srtm_data", "srtm3.cte"), cfg.ElevationPath("srtm3.cte"))
}

func TestCheckEmpty(t *testing.T) {
	require.ErrorIs(t, Config{}.Check(), storage.ErrConfigMissing)
}

func TestRootReportsOnce(t *testing.T) {
	t.Setenv(EnvRoot, "")
	r := NewRoot(nil)
	require.ErrorIs(t, r.Check(nil), storage.ErrConfigMissing)
	require.ErrorIs(t, r.Check(nil), storage.ErrConfigMissing)

	cfg := Config{Root: t.TempDir()}
	r = NewRoot(&cfg)
	require.NoError(t, r.Check(nil))
	require.Equal(t, cfg, r.Config)
}
