package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	domainerrors "github.com/maksimkurb/tracegate/src/internal/errors"
	"github.com/maksimkurb/tracegate/src/internal/log"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, domainerrors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Errorf("Configuration file not found: %s", configFile)
		return nil, domainerrors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), err)
	} else if err != nil {
		return nil, domainerrors.NewConfigError("failed to read config file", err)
	}

	config, err := ParseConfig(content, isYAML(configFile))
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Loaded %d component override(s)", len(config.Components))

	return config, nil
}

// ParseConfig decodes content on top of DefaultConfig.
func ParseConfig(content []byte, asYAML bool) (*Config, error) {
	config := DefaultConfig()

	if asYAML {
		if err := yaml.Unmarshal(content, config); err != nil {
			return nil, domainerrors.NewConfigError("failed to parse config file", err)
		}
		return config, nil
	}

	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, domainerrors.NewConfigError(fmt.Sprintf("failed to parse config file at line %d, column %d", row, col), err)
		}
		return nil, domainerrors.NewConfigError("failed to parse config file", err)
	}

	return config, nil
}

// SerializeConfig encodes the configuration in the format of its file.
func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}

	if isYAML(c._absConfigFilePath) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return &buf, nil
	}

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (c *Config) WriteConfig() error {
	if c._absConfigFilePath == "" {
		return domainerrors.NewConfigError("configuration has no file path", nil)
	}

	config, err := c.SerializeConfig()
	if err != nil {
		return domainerrors.NewConfigError("failed to serialize config", err)
	}
	if err := os.WriteFile(c._absConfigFilePath, config.Bytes(), 0644); err != nil {
		return domainerrors.NewConfigError("failed to write config file", err)
	}
	return nil
}

// Clone returns a deep copy of c bound to the same file.
func (c *Config) Clone() *Config {
	out := *c
	out.Components = append([]ComponentConfig(nil), c.Components...)
	return &out
}
