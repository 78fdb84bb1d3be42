// Package config handles configuration file parsing and validation for tracegate.
//
// This package reads TOML (or YAML, by file extension) configuration files
// and turns them into the initial state of a verbosity registry.
//
// # Configuration Structure
//
// The configuration file defines:
//   - General settings (admin API bind address, reload interval)
//   - Trace settings (global default verbosity, level cap, cache size, output)
//   - Per-component verbosity overrides
//
// Example:
//
//	[general]
//	api_bind_address = "127.0.0.1:8089"
//	reload_interval_seconds = 30
//
//	[trace]
//	default_verbosity = 0
//	max_level = -1
//	output = "-"
//	color = "auto"
//
//	[[component]]
//	name = "db.pool"
//	verbosity = 3
//
// # Environment
//
// TRACEGATE_VERBOSITY holds extra overrides in the form "a.b=3,a.b.c=5,=1"
// (an empty name is the global default). They are applied after the file.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/tracegate.toml")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
//	reg := verbosity.New(cfg.RegistryOptions()...)
//	cfg.Apply(reg)
package config
