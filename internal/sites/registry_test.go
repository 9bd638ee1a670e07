package sites_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidelens/seascan/internal/sites"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	reg := sites.Defaults()

	listed := reg.List()
	require.Len(t, listed, 2)
	assert.Equal(t, "Kish Bank", listed[0].Name)
	assert.Equal(t, "Arklow Bank", listed[1].Name)

	kish, err := reg.Get("kish-bank")
	require.NoError(t, err)
	assert.InEpsilon(t, 9.4, kish.WindSpeed, 1e-9)
	assert.InEpsilon(t, 11.2, kish.DistanceToShore, 1e-9)
	require.NoError(t, kish.BBox.Validate())
}

func TestGetUnknownSite(t *testing.T) {
	t.Parallel()
	reg := sites.Defaults()

	_, err := reg.Get("dogger-bank")

	require.Error(t, err)
	require.ErrorIs(t, err, sites.ErrUnknownSite)
}

func TestLoad(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")

	t.Run("valid file with defaults applied", func(t *testing.T) {
		content := `
sites:
  - name: Codling Bank
    lat: 53.05
    lon: -5.80
    bbox: {west: -5.95, south: 52.95, east: -5.70, north: 53.15}
`
		path := filepath.Join(dir, "sites.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		reg, err := sites.Load(path)

		require.NoError(t, err)
		site, err := reg.Get("codling-bank")
		require.NoError(t, err)
		assert.Equal(t, "Codling Bank", site.Name)
		assert.InEpsilon(t, 9.4, site.WindSpeed, 1e-9)
		assert.InEpsilon(t, 11.2, site.DistanceToShore, 1e-9)
	})

	t.Run("degenerate bbox rejected", func(t *testing.T) {
		content := `
sites:
  - name: Broken Bank
    bbox: {west: -5.70, south: 52.95, east: -5.95, north: 53.15}
`
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := sites.Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Broken Bank")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := sites.Load(filepath.Join(dir, "nope.yaml"))

		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sites: []"), 0o600))

		_, err := sites.Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "contains no sites")
	})
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "kish-bank", sites.Slugify("Kish Bank"))
	assert.Equal(t, "arklow-bank", sites.Slugify("  Arklow   Bank "))
}
