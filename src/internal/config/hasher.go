package config

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

const hashCacheTTL = 5 * time.Minute

// ConfigHasher calculates MD5 hashes of the configuration for change
// detection. It keeps the hash of the file on disk (cached) and the hash of
// the configuration currently applied to the registry.
type ConfigHasher struct {
	configPath string

	currentHash     string
	currentHashTime time.Time

	activeHash string

	mu sync.RWMutex
}

// NewConfigHasher creates a new config hasher
func NewConfigHasher(configPath string) *ConfigHasher {
	return &ConfigHasher{
		configPath: configPath,
	}
}

// GetCurrentConfigHash returns cached hash of current config file
// Automatically calls UpdateCurrentConfigHash() on cache miss
func (h *ConfigHasher) GetCurrentConfigHash() (string, error) {
	h.mu.RLock()
	if time.Since(h.currentHashTime) < hashCacheTTL && h.currentHash != "" {
		hash := h.currentHash
		h.mu.RUnlock()
		return hash, nil
	}
	h.mu.RUnlock()

	return h.UpdateCurrentConfigHash()
}

// UpdateCurrentConfigHash reloads the config file and recalculates its hash
// regardless of cache state.
func (h *ConfigHasher) UpdateCurrentConfigHash() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cfg, err := LoadConfig(h.configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	hash, err := h.CalculateHash(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	h.currentHash = hash
	h.currentHashTime = time.Now()

	return hash, nil
}

// CalculateHash calculates the hash of a config object. Component order does
// not affect the result.
func (h *ConfigHasher) CalculateHash(config *Config) (string, error) {
	components := make([]ComponentConfig, len(config.Components))
	copy(components, config.Components)
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})

	hashData := &ConfigHashData{
		General:    config.General,
		Trace:      config.Trace,
		Components: components,
	}

	jsonBytes, err := json.Marshal(hashData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config data: %w", err)
	}

	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}

// GetActiveConfigHash returns the hash of the configuration last applied.
func (h *ConfigHasher) GetActiveConfigHash() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.activeHash
}

// SetActiveConfigHash records the hash of the configuration just applied.
func (h *ConfigHasher) SetActiveConfigHash(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activeHash = hash
}

// ConfigHashData represents the structure used for hashing
type ConfigHashData struct {
	General    GeneralConfig     `json:"general"`
	Trace      TraceConfig       `json:"trace"`
	Components []ComponentConfig `json:"components"`
}
