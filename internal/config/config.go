// Package config loads the optional codex configuration file and resolves
// settings from flags, environment and file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted when a flag is not set.
const (
	EnvRules     = "CODEX_RULES"
	EnvOnInvalid = "CODEX_ON_INVALID"
	EnvWorkers   = "CODEX_WORKERS"
)

// Config is the file form of build settings. Zero values mean "not set".
type Config struct {
	Rules     string `json:"rules" yaml:"rules"`
	OnInvalid string `json:"on_invalid" yaml:"on_invalid"`
	Workers   int    `json:"workers" yaml:"workers"`
	Pretty    bool   `json:"pretty" yaml:"pretty"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// LoadFromPath reads a config file (YAML or JSON). A relative rules path is
// taken relative to the file's directory.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Load(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if c.Rules != "" && !filepath.IsAbs(c.Rules) {
		c.Rules = filepath.Join(filepath.Dir(path), c.Rules)
	}
	return c, nil
}

// Load parses config bytes. ext is the file extension used as a format
// hint; empty means detect from content.
func Load(data []byte, ext string) (*Config, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}
	var c Config
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	return &c, nil
}

// String resolves a string setting: flag, then environment, then file,
// then def.
func String(flagValue, envKey, fileValue, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); envKey != "" && v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}

// Int resolves an integer setting with the same precedence as String.
// flagSet reports whether the flag was given explicitly.
func Int(flagValue int, flagSet bool, envKey string, fileValue, def int) (int, error) {
	if flagSet {
		return flagValue, nil
	}
	if v := os.Getenv(envKey); envKey != "" && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, err)
		}
		return n, nil
	}
	if fileValue != 0 {
		return fileValue, nil
	}
	return def, nil
}
