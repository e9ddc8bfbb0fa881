package jq

import (
	"fmt"
	"strings"

	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	cmdcommon "github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagName               = "jq"
	ColorFlagName          = "jq-color"
	ColorThemeFlagName     = "jq-color-theme"
	RawOutputFlagName      = "jq-raw-output"
	RawOutputFlagShort     = "r"
	ColorEnabledConfigPath = "jq.color.enabled"
	ColorThemeConfigPath   = "jq.color.theme"
	RawOutputConfigPath    = "jq.raw-output"
	DefaultTheme           = "friendly"
)

// Settings is the resolved jq configuration for one command run.
type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	RawOutput bool
}

func (s Settings) HasFilter() bool {
	return strings.TrimSpace(s.Filter) != ""
}

// AddFlags registers --jq and its companions on a command that prints
// structured records.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter json or yaml output with a jq expression.")

	flags.Var(cmdpkg.NewEnum([]string{
		cmdcommon.ColorModeAuto.String(),
		cmdcommon.ColorModeAlways.String(),
		cmdcommon.ColorModeNever.String(),
	}, cmdcommon.DefaultColorMode), ColorFlagName,
		fmt.Sprintf(`Colorize jq results.
- Config path: [ %s ]
- Allowed    : [ auto|always|never ]`, ColorEnabledConfigPath))

	flags.String(ColorThemeFlagName, DefaultTheme,
		fmt.Sprintf(`Chroma style used to colorize jq results.
- Config path: [ %s ]`, ColorThemeConfigPath))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false,
		fmt.Sprintf(`Print string results without quotes, like jq -r.
- Config path: [ %s ]`, RawOutputConfigPath))
}

// BindFlags connects the jq flags to their config paths.
func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	for flag, path := range map[string]string{
		ColorFlagName:      ColorEnabledConfigPath,
		ColorThemeFlagName: ColorThemeConfigPath,
		RawOutputFlagName:  RawOutputConfigPath,
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := cfg.BindFlag(path, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveSettings reads the jq flags of command, then lets cfg override
// the color and raw output settings. Commands without --jq get defaults.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	s := Settings{Theme: DefaultTheme, ColorMode: cmdcommon.ColorModeAuto}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return s, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	s.Filter = strings.TrimSpace(filter)
	if s.Filter == "" && flags.Changed(FlagName) {
		s.Filter = "."
	}

	if cfg == nil {
		if flags.Lookup(RawOutputFlagName) != nil {
			if s.RawOutput, err = flags.GetBool(RawOutputFlagName); err != nil {
				return Settings{}, err
			}
		}
		return s, nil
	}

	mode, err := cmdcommon.ColorModeStringToIota(strings.ToLower(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath))))
	if err != nil {
		return Settings{}, err
	}
	s.ColorMode = mode
	if theme := strings.TrimSpace(cfg.GetString(ColorThemeConfigPath)); theme != "" {
		s.Theme = theme
	}
	s.RawOutput = cfg.GetBool(RawOutputConfigPath)
	return s, nil
}

// Validate rejects jq settings that the output format cannot honor.
func (s Settings) Validate(outType cmdcommon.OutputFormat) error {
	switch {
	case s.RawOutput && !s.HasFilter():
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName),
		}
	case s.RawOutput && outType != cmdcommon.JSON:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json", RawOutputFlagName),
		}
	case s.HasFilter() && outType == cmdcommon.TEXT:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
		}
	}
	return nil
}
