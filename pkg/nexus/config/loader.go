package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadHost reads a host configuration file and resolves it into Host
// settings, filling absent keys with defaults. This is the entry point
// the nexus command uses; FromFile remains for callers that want the
// raw key/value view.
func LoadHost(path string) (Host, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Host{}, err
	}
	return HostFrom(cfg), nil
}

// FromFile loads a host configuration file, choosing the parser by
// extension: .yaml and .yml parse as YAML, .json as JSON.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML into a Config. The document must be a mapping at
// the top level, matching the flat key set Host reads.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}
