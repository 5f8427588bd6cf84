package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/cities"
)

func TestSelectedCitiesAll(t *testing.T) {
	cityNames = "all"
	assert.Len(t, selectedCities(), len(cities.All))
}

func TestSelectedCitiesByNameAndSlug(t *testing.T) {
	cityNames = "kalamazoo, elpaso"
	selected := selectedCities()
	require.Len(t, selected, 2)
	assert.Equal(t, "kzoo", selected[0].Slug)
	assert.Equal(t, "elpaso", selected[1].Slug)
}

func TestSelectedCitiesSkipsUnknown(t *testing.T) {
	cityNames = "buffalo,atlantis"
	selected := selectedCities()
	require.Len(t, selected, 1)
	assert.Equal(t, "buffalo", selected[0].Slug)
}

func TestVersionCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version", "--short"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "dev", strings.TrimSpace(buf.String()))
}
