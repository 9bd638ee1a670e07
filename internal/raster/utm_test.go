package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectToCRS(t *testing.T) {
	t.Parallel()

	t.Run("geographic target passes through", func(t *testing.T) {
		t.Parallel()
		x, y, err := projectToCRS(-5.95, 53.27, 4326)

		require.NoError(t, err)
		assert.InEpsilon(t, -5.95, x, 1e-12)
		assert.InEpsilon(t, 53.27, y, 1e-12)
	})

	t.Run("central meridian maps to false easting", func(t *testing.T) {
		t.Parallel()
		// Zone 29 central meridian is 9°W.
		x, _, err := projectToCRS(-9, 53, 32629)

		require.NoError(t, err)
		assert.InDelta(t, 500000.0, x, 1e-6)
	})

	t.Run("equator maps to zero northing", func(t *testing.T) {
		t.Parallel()
		_, y, err := projectToCRS(-9, 0, 32629)

		require.NoError(t, err)
		assert.InDelta(t, 0.0, y, 1e-6)
	})

	t.Run("east of central meridian increases easting", func(t *testing.T) {
		t.Parallel()
		west, _, err := projectToCRS(-8, 53, 32629)
		require.NoError(t, err)
		east, _, err := projectToCRS(-6, 53, 32629)
		require.NoError(t, err)

		assert.Greater(t, east, west)
		assert.Greater(t, west, 500000.0)
	})

	t.Run("northing grows with latitude", func(t *testing.T) {
		t.Parallel()
		_, low, err := projectToCRS(-6, 52, 32629)
		require.NoError(t, err)
		_, high, err := projectToCRS(-6, 54, 32629)
		require.NoError(t, err)

		assert.Greater(t, high, low)
		// One degree of latitude is roughly 111 km of northing.
		assert.InDelta(t, 222000, high-low, 2000)
	})

	t.Run("southern zone applies false northing", func(t *testing.T) {
		t.Parallel()
		_, y, err := projectToCRS(173, -41, 32760)

		require.NoError(t, err)
		assert.Greater(t, y, 5000000.0)
		assert.Less(t, y, falseNorthing)
	})

	t.Run("unsupported EPSG rejected", func(t *testing.T) {
		t.Parallel()
		_, _, err := projectToCRS(0, 0, 3857)

		require.Error(t, err)
		require.ErrorIs(t, err, ErrUnsupportedCRS)
	})
}

func TestUTMZoneFromEPSG(t *testing.T) {
	t.Parallel()

	zone, south, err := utmZoneFromEPSG(32629)
	require.NoError(t, err)
	assert.Equal(t, 29, zone)
	assert.False(t, south)

	zone, south, err = utmZoneFromEPSG(32760)
	require.NoError(t, err)
	assert.Equal(t, 60, zone)
	assert.True(t, south)

	_, _, err = utmZoneFromEPSG(4326)
	require.Error(t, err)
}
