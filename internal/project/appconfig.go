package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/backpack/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.backpack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".backpack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// format is a config encoding selected by file extension.
type format int

const (
	formatJSON format = iota
	formatTOML
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		return formatJSON, nil
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// SaveAppConfig persists an AppConfig to the given path. The encoding is
// chosen from the extension: .json, .toml, .yaml or .yml.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	var data []byte
	switch f {
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = buf.Bytes()
	case formatYAML:
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Fields missing from
// the file keep their defaults. If the file does not exist, it returns
// DefaultAppConfig with no error. The palette is left empty unless the file
// defines one, so callers fall back to the palette file. The result is
// validated.
func LoadAppConfig(path string) (model.AppConfig, error) {
	f, err := formatFor(path)
	if err != nil {
		return model.AppConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config := model.DefaultAppConfig()
			config.Palette = nil
			return config, nil
		}
		return model.AppConfig{}, err
	}

	config := model.DefaultAppConfig()
	config.Palette = nil
	switch f {
	case formatTOML:
		_, err = toml.Decode(string(data), &config)
	case formatYAML:
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if config.Seed == nil {
		config.Seed = []model.SeedItem{}
	}
	if err := config.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return config, nil
}
