package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWrapsAround(t *testing.T) {
	names := Available()
	require.Len(t, names, 3)

	assert.Equal(t, names[1], Next(names[0]).Name)
	assert.Equal(t, names[0], Next(names[len(names)-1]).Name)
	assert.Equal(t, names[0], Next("unknown").Name)
}

func TestSetCurrent(t *testing.T) {
	t.Cleanup(func() { _ = SetCurrent(DefaultName) })

	require.NoError(t, SetCurrent(" Happy-Dark "))
	assert.Equal(t, "happy-dark", Current().Name)

	err := SetCurrent("neon")
	require.Error(t, err)
	assert.Equal(t, "happy-dark", Current().Name)
}

func TestContrastColor(t *testing.T) {
	assert.Equal(t, "#121418", contrastColor("#FFFFFF"))
	assert.Equal(t, "#F8F8F8", contrastColor("#000000"))
	assert.Equal(t, "#121418", contrastColor("not-a-color"))
}

func TestDerivedPaletteFillsEveryToken(t *testing.T) {
	p := defaultPalette()
	for _, token := range []Token{
		ColorTextPrimary, ColorTextMuted, ColorBorder, ColorPrimary, ColorPrimaryText,
		ColorAccent, ColorSuccess, ColorWarning, ColorDanger, ColorDangerText, ColorHighlight,
	} {
		assert.NotEmpty(t, p.Colors[token], token)
	}
}

func TestFlagRejectsUnknownTheme(t *testing.T) {
	f := NewFlag(DefaultName)
	require.Error(t, f.Set("neon"))
	require.NoError(t, f.Set("mono"))
	assert.Equal(t, "mono", f.String())
}

func TestDark(t *testing.T) {
	light, ok := Get(DefaultName)
	require.True(t, ok)
	dark, ok := Get("happy-dark")
	require.True(t, ok)
	assert.False(t, light.Dark())
	assert.True(t, dark.Dark())
}
