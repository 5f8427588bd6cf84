package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCollectRejectsBadStartDate(t *testing.T) {
	err := runCLI(t, "collect", "--start", "01/01/2015", "--end", "2025-01-01", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestCollectRejectsInvertedWindow(t *testing.T) {
	err := runCLI(t, "collect", "--start", "2025-01-01", "--end", "2015-01-01", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--end must be after --start")
}

func TestCollectRejectsUnknownType(t *testing.T) {
	err := runCLI(t, "collect",
		"--type", "myspace",
		"--start", "2015-01-01", "--end", "2025-01-01",
		"--cities", "kalamazoo",
		"--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source type")
}

func TestCollectRejectsUnknownCities(t *testing.T) {
	err := runCLI(t, "collect",
		"--type", "reddit",
		"--start", "2015-01-01", "--end", "2025-01-01",
		"--cities", "atlantis",
		"--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no known cities")
}
