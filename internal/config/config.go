// Package config loads and validates the saferoot daemon configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Templates TemplatesConfig `yaml:"templates"`
	Audit     AuditConfig     `yaml:"audit"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr       string `yaml:"listen_addr"`
	StaticMaxAgeSecs int    `yaml:"static_max_age_seconds"`
}

// StorageConfig locates the metadata database and the uploads root.
type StorageConfig struct {
	DBPath     string `yaml:"db_path"`
	UploadsDir string `yaml:"uploads_dir"`
}

// TemplatesConfig locates the component templates root and its token policy.
type TemplatesConfig struct {
	Dir            string `yaml:"dir"`
	MaxTokenLength int    `yaml:"max_token_length"`
}

// AuditConfig tunes the rejection event trail.
type AuditConfig struct {
	Buffer int `yaml:"buffer"`
}

// Parse decodes a single-document YAML config, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
