package jq

import (
	"bytes"
	"testing"

	cmdcommon "github.com/happyjobs/happyctl/internal/cmd/common"
	configtest "github.com/happyjobs/happyctl/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	command := &cobra.Command{Use: "test"}
	AddFlags(command.Flags())
	require.NoError(t, command.Flags().Parse(args))
	return command
}

func TestResolveSettingsDefaults(t *testing.T) {
	s, err := ResolveSettings(newCommand(t), nil)
	require.NoError(t, err)
	assert.False(t, s.HasFilter())
	assert.Equal(t, cmdcommon.ColorModeAuto, s.ColorMode)
	assert.Equal(t, DefaultTheme, s.Theme)
}

func TestResolveSettingsEmptyFilterIsIdentity(t *testing.T) {
	s, err := ResolveSettings(newCommand(t, "--jq="), nil)
	require.NoError(t, err)
	assert.Equal(t, ".", s.Filter)
}

func TestResolveSettingsRawShortFlag(t *testing.T) {
	s, err := ResolveSettings(newCommand(t, "-r", "--jq", ".[]"), nil)
	require.NoError(t, err)
	assert.True(t, s.RawOutput)
	assert.Equal(t, ".[]", s.Filter)
}

func TestResolveSettingsFromConfig(t *testing.T) {
	cfg := configtest.NewMockConfigHook(map[string]any{
		ColorEnabledConfigPath: "always",
		ColorThemeConfigPath:   "github",
		RawOutputConfigPath:    true,
	})
	s, err := ResolveSettings(newCommand(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, cmdcommon.ColorModeAlways, s.ColorMode)
	assert.Equal(t, "github", s.Theme)
	assert.True(t, s.RawOutput)
}

func TestResolveSettingsWithoutJQFlag(t *testing.T) {
	cfg := configtest.NewMockConfigHook(map[string]any{RawOutputConfigPath: true})
	s, err := ResolveSettings(&cobra.Command{Use: "plain"}, cfg)
	require.NoError(t, err)
	assert.False(t, s.RawOutput)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Settings{}.Validate(cmdcommon.TEXT))
	assert.NoError(t, Settings{Filter: "."}.Validate(cmdcommon.YAML))
	assert.Error(t, Settings{Filter: "."}.Validate(cmdcommon.TEXT))
	assert.Error(t, Settings{RawOutput: true}.Validate(cmdcommon.JSON))
	assert.Error(t, Settings{Filter: ".", RawOutput: true}.Validate(cmdcommon.YAML))
}

type record struct {
	ID     string `json:"_id"`
	Status string `json:"status"`
}

func TestApplyReturnsFilteredValue(t *testing.T) {
	var out bytes.Buffer
	raw := []record{{"a", "pending"}, {"b", "rejected"}}

	got, handled, err := Apply(raw, cmdcommon.JSON,
		Settings{Filter: `map(select(.status == "rejected")) | .[0]._id`, ColorMode: cmdcommon.ColorModeNever}, &out)
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, "b", got)
	assert.Empty(t, out.String())
}

func TestApplyMultipleResultsBecomeArray(t *testing.T) {
	got, _, err := Apply([]record{{"a", "x"}, {"b", "y"}}, cmdcommon.YAML, Settings{Filter: ".[]._id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestApplyRawOutputWritesLines(t *testing.T) {
	var out bytes.Buffer
	_, handled, err := Apply([]record{{"a", "x"}, {"b", "y"}}, cmdcommon.JSON,
		Settings{Filter: ".[]._id", RawOutput: true}, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "a\nb\n", out.String())
}

func TestApplyColorAlways(t *testing.T) {
	var out bytes.Buffer
	_, handled, err := Apply(map[string]int{"total": 3}, cmdcommon.JSON,
		Settings{Filter: ".", ColorMode: cmdcommon.ColorModeAlways, Theme: DefaultTheme}, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "total")
}

func TestApplyInvalidExpression(t *testing.T) {
	_, _, err := Apply(map[string]int{}, cmdcommon.JSON, Settings{Filter: ".[["}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, UseColor(cmdcommon.ColorModeAlways, &buf))
	assert.False(t, UseColor(cmdcommon.ColorModeNever, &buf))
	assert.False(t, UseColor(cmdcommon.ColorModeAuto, &buf))
}
