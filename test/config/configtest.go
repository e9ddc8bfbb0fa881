package config

import (
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// MockConfigHook is an in-memory config.Hook for tests. Values are keyed
// by their profile-relative path, for example "admin.base-url".
type MockConfigHook struct {
	Values       map[string]any
	Profile      string
	Path         string
	BindFlagMock func(string, *pflag.Flag) error
}

func NewMockConfigHook(values map[string]any) *MockConfigHook {
	if values == nil {
		values = map[string]any{}
	}
	return &MockConfigHook{Values: values, Profile: "default"}
}

func (m *MockConfigHook) GetString(key string) string {
	return cast.ToString(m.Values[key])
}

func (m *MockConfigHook) GetBool(key string) bool {
	return cast.ToBool(m.Values[key])
}

func (m *MockConfigHook) GetIntOrElse(key string, orElse int) int {
	if v, ok := m.Values[key]; ok {
		return cast.ToInt(v)
	}
	return orElse
}

// BindFlag copies the flag's value when it was set on the command line.
func (m *MockConfigHook) BindFlag(configPath string, f *pflag.Flag) error {
	if m.BindFlagMock != nil {
		return m.BindFlagMock(configPath, f)
	}
	if f != nil && f.Changed {
		m.Values[configPath] = f.Value.String()
	}
	return nil
}

func (m *MockConfigHook) GetProfile() string {
	return m.Profile
}

func (m *MockConfigHook) GetPath() string {
	return m.Path
}
