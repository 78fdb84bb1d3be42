package config

import (
	"io"
	"path/filepath"

	"github.com/maksimkurb/tracegate/src/internal/emit"
	"github.com/maksimkurb/tracegate/src/internal/utils"
	"github.com/maksimkurb/tracegate/src/internal/verbosity"
)

const (
	DefaultAPIBindAddress = "127.0.0.1:8089"

	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

type Config struct {
	// General holds general configuration.
	General GeneralConfig `toml:"general" yaml:"general" json:"general"`
	// Trace holds registry and tracer settings.
	Trace TraceConfig `toml:"trace" yaml:"trace" json:"trace"`
	// Components are per-component verbosity overrides.
	Components []ComponentConfig `toml:"component,omitempty" yaml:"component,omitempty" json:"component,omitempty"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// APIBindAddress is the admin API listen address (host:port, empty disables the API).
	APIBindAddress string `toml:"api_bind_address" yaml:"api_bind_address" json:"api_bind_address" validate:"hostport_or_empty"`
	// ReloadIntervalSeconds is how often the config file is checked for changes (0 = only on SIGHUP).
	ReloadIntervalSeconds int `toml:"reload_interval_seconds" yaml:"reload_interval_seconds" json:"reload_interval_seconds" validate:"gte=0"`
}

type TraceConfig struct {
	// DefaultVerbosity is the global default for components without an override.
	DefaultVerbosity int `toml:"default_verbosity" yaml:"default_verbosity" json:"default_verbosity"`
	// MaxLevel rejects every event above it (-1 = no cap).
	MaxLevel int `toml:"max_level" yaml:"max_level" json:"max_level"`
	// CacheLimit bounds the resolution cache (0 = no cache).
	CacheLimit int `toml:"cache_limit" yaml:"cache_limit" json:"cache_limit" validate:"gte=0"`
	// Output is "-" for stderr, "stdout", or a file path.
	Output string `toml:"output" yaml:"output" json:"output"`
	// Color is auto, on or off.
	Color string `toml:"color" yaml:"color" json:"color" validate:"omitempty,oneof=auto on off"`
}

type ComponentConfig struct {
	Name      string `toml:"name" yaml:"name" json:"name" validate:"required,component_name"`
	Verbosity int    `toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns a configuration with every field at its default.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			APIBindAddress: DefaultAPIBindAddress,
		},
		Trace: TraceConfig{
			DefaultVerbosity: verbosity.DefaultVerbosity,
			MaxLevel:         -1,
			CacheLimit:       verbosity.DefaultCacheLimit,
			Output:           "-",
			Color:            ColorAuto,
		},
	}
}

func (c *Config) GetConfigPath() string {
	return c._absConfigFilePath
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// TraceOutput returns the trace output setting with a relative file path
// resolved against the configuration file directory.
func (c *Config) TraceOutput() string {
	switch out := c.Trace.Output; out {
	case "", "-", "stdout":
		return out
	default:
		if c._absConfigFilePath == "" {
			return out
		}
		return utils.GetAbsolutePath(out, c.GetConfigDir())
	}
}

// Overrides returns the component overrides in file order.
func (c *Config) Overrides() []verbosity.Override {
	out := make([]verbosity.Override, 0, len(c.Components))
	for _, comp := range c.Components {
		out = append(out, verbosity.Override{Name: comp.Name, Verbosity: comp.Verbosity})
	}
	return out
}

// SetComponent adds or updates the override for name.
func (c *Config) SetComponent(name string, v int) {
	for i := range c.Components {
		if c.Components[i].Name == name {
			c.Components[i].Verbosity = v
			return
		}
	}
	c.Components = append(c.Components, ComponentConfig{Name: name, Verbosity: v})
}

// RemoveComponent drops the override for name and reports whether it existed.
func (c *Config) RemoveComponent(name string) bool {
	for i := range c.Components {
		if c.Components[i].Name == name {
			c.Components = append(c.Components[:i], c.Components[i+1:]...)
			return true
		}
	}
	return false
}

// RegistryOptions returns the registry options that cannot change after the
// registry is created.
func (c *Config) RegistryOptions() []verbosity.Option {
	return []verbosity.Option{
		verbosity.WithDefaultVerbosity(c.Trace.DefaultVerbosity),
		verbosity.WithCacheLimit(c.Trace.CacheLimit),
	}
}

// Apply installs the default verbosity and component overrides in reg in one
// step, followed by extra (usually the environment overrides). The file's
// default also becomes what Reset and Clear("") restore.
func (c *Config) Apply(reg *verbosity.Registry, extra ...verbosity.Override) {
	overrides := append(c.Overrides(), extra...)
	reg.SetInitialVerbosity(c.Trace.DefaultVerbosity)
	reg.Replace(c.Trace.DefaultVerbosity, overrides)
}

// UseColor reports whether trace output written to w should be colored.
func (t TraceConfig) UseColor(w io.Writer) bool {
	switch t.Color {
	case ColorOn:
		return true
	case ColorOff:
		return false
	default:
		return emit.IsTerminal(w)
	}
}
