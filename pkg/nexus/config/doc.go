/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
This avoids verbose type assertions when reading host settings from
YAML/JSON structures.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "scripts_dir": "./scripts",
	    "metrics":     true,
	})

	dir := cfg.String("scripts_dir", "scripts") // "./scripts"
	metrics := cfg.Bool("metrics", false)       // true
	missing := cfg.String("store_path", "")     // ""

# Host Settings

HostFrom resolves the well-known host keys into a typed struct:

	cfg, err := config.FromFile("nexus.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	host := config.HostFrom(cfg)

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("nexus.yaml")

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
