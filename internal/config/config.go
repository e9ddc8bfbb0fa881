package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/util/viper"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var defaultConfigFileName = "config.yaml"

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/happyctl, or
// ~/.config/happyctl when XDG_CONFIG_HOME is unset.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		var err error
		val, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(val, ".config")
	}
	val = filepath.Join(val, meta.CLIName)
	return os.ExpandEnv(val), nil
}

func GetDefaultConfigFilePath() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(path, defaultConfigFileName), nil
}

// GetConfig loads the config file at path and selects profile from it. An
// explicit path must exist. The default path is created, with defaults for
// profile, the first time it is used.
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); err == nil {
		vip, err := viper.NewViperE(path)
		if err != nil {
			return nil, err
		}
		return BuildProfiledConfig(profile, path, vip), nil
	}
	if path != defaultConfigFilePath {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}
	vip, err := viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
	if err != nil {
		return nil, err
	}
	return BuildProfiledConfig(profile, path, vip), nil
}

type Key struct{}

// ConfigKey carries the command's Hook in a context.
var ConfigKey = Key{}

// Hook is the view of a profiled configuration handed to commands. Keys are
// relative to the active profile, for example "admin.page-size".
type Hook interface {
	GetString(key string) string
	GetBool(key string) bool
	// GetIntOrElse returns orElse when key is set nowhere.
	GetIntOrElse(key string, orElse int) int
	// BindFlag makes f, when set on the command line, win over configPath.
	BindFlag(configPath string, f *pflag.Flag) error
	GetProfile() string
	// GetPath is the file the configuration was loaded from.
	GetPath() string
}

// ProfiledConfig reads one profile section of the config file. Lookups go
// to the profile's sub-tree, with HAPPYCTL_<PROFILE>_* environment
// variables and bound flags layered on top.
type ProfiledConfig struct {
	profile     *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string { return p.ProfileName }
func (p *ProfiledConfig) GetPath() string    { return p.Path }

func (p *ProfiledConfig) GetString(key string) string { return p.profile.GetString(key) }
func (p *ProfiledConfig) GetBool(key string) bool     { return p.profile.GetBool(key) }

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.profile.IsSet(key) {
		return p.profile.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.profile.BindPFlag(configPath, f)
}

func BuildProfiledConfig(profile string, path string, root *v.Viper) *ProfiledConfig {
	sub := root.Sub(profile)
	if sub == nil {
		// no section for this profile in the file, env vars still apply
		sub = v.New()
	}
	viper.ConfigureEnvVars(sub, ProfileEnvPrefix(profile))
	return &ProfiledConfig{profile: sub, ProfileName: profile, Path: path}
}

// ProfileEnvPrefix returns the env var prefix for keys of profile, for
// example HAPPYCTL_TEAM_A for profile "team-a".
func ProfileEnvPrefix(profile string) string {
	return strings.ToUpper(meta.CLIName + "_" + strings.ReplaceAll(profile, "-", "_"))
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	logPath := filepath.Join(filepath.Dir(configFilePath), "logs", meta.CLIName+".log")
	return map[string]any{
		profileName: map[string]any{
			common.OutputConfigPath:     common.DefaultOutputFormat,
			common.LogFileConfigPath:    logPath,
			common.ColorThemeConfigPath: common.DefaultColorTheme,
			"admin": map[string]any{
				"base-url":  common.DefaultBaseURL,
				"page-size": common.DefaultPageSize,
			},
		},
	}
}
