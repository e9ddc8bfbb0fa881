package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatStringToIota(t *testing.T) {
	for _, want := range []OutputFormat{JSON, YAML, TEXT} {
		got, err := OutputFormatStringToIota(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := OutputFormatStringToIota("csv")
	require.Error(t, err)
}

func TestColorModeStringToIota(t *testing.T) {
	mode, err := ColorModeStringToIota("")
	require.NoError(t, err)
	assert.Equal(t, ColorModeAuto, mode)

	mode, err = ColorModeStringToIota("never")
	require.NoError(t, err)
	assert.Equal(t, "never", mode.String())

	_, err = ColorModeStringToIota("sometimes")
	require.Error(t, err)
}
