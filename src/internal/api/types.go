package api

import "github.com/maksimkurb/tracegate/src/internal/verbosity"

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// VerbosityRequest sets a verbosity.
type VerbosityRequest struct {
	Verbosity *int `json:"verbosity"`
}

// RegistryResponse describes the whole registry.
type RegistryResponse struct {
	DefaultVerbosity int                  `json:"default_verbosity"`
	Generation       uint64               `json:"generation"`
	Overrides        []verbosity.Override `json:"overrides"`
}

// DefaultResponse returns the global default.
type DefaultResponse struct {
	Verbosity int `json:"verbosity"`
}

// ComponentResponse describes one component.
type ComponentResponse struct {
	Name      string `json:"name"`
	Effective int    `json:"effective"`
	Explicit  bool   `json:"explicit"`
	Verbosity *int   `json:"verbosity,omitempty"` // only when explicit
}

// CheckResponse is the gate decision for one component and level.
type CheckResponse struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Effective int    `json:"effective"`
	Enabled   bool   `json:"enabled"`
}

// HealthResponse returns liveness and registry statistics.
type HealthResponse struct {
	Healthy      bool        `json:"healthy"`
	Version      VersionInfo `json:"version"`
	Uptime       string      `json:"uptime"`
	TraceEnabled bool        `json:"trace_enabled"`
	Generation   uint64      `json:"generation"`
	CacheEntries int         `json:"cache_entries"`

	CurrentConfigHash     string `json:"current_config_hash,omitempty"`
	AppliedConfigHash     string `json:"applied_config_hash,omitempty"`
	ConfigurationOutdated bool   `json:"configuration_outdated"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}
