package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, err := ByName("san francisco")
	require.NoError(t, err)
	assert.Equal(t, "sanfrancisco", c.Slug)

	c, err = ByName("KZOO")
	require.NoError(t, err)
	assert.Equal(t, "kalamazoo", c.Name)

	_, err = ByName("gotham")
	assert.Error(t, err)
}

func TestAllCitiesHaveCoordinates(t *testing.T) {
	require.Len(t, All, 10)
	for _, c := range All {
		assert.NotEmpty(t, c.Slug, c.Name)
		assert.NotZero(t, c.Longitude, c.Name)
		assert.NotZero(t, c.Latitude, c.Name)
		assert.NotEmpty(t, c.NewsDomains, c.Name)
		assert.NotEmpty(t, c.LexisSources, c.Name)
	}
}

func TestOnlySanFranciscoHasGranicus(t *testing.T) {
	for _, c := range All {
		if c.Slug == "sanfrancisco" {
			assert.NotEmpty(t, c.GranicusHost)
			assert.Len(t, c.NewsDomains, 7)
			continue
		}
		assert.Empty(t, c.GranicusHost, c.Name)
	}
}

func TestPointRadius(t *testing.T) {
	c, err := ByName("el paso")
	require.NoError(t, err)
	assert.Equal(t, "point_radius:[-106.485 31.7619 20km]", c.PointRadius())

	assert.Empty(t, City{Name: "Nowhere"}.PointRadius())
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 10)
	assert.Equal(t, "south bend", names[0])
	assert.Equal(t, "el paso", names[9])
}
