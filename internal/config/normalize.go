package config

import (
	"strings"

	"saferoot/pkg/pathguard"
)

// Defaults applied by Normalize for fields left unset.
const (
	DefaultListenAddr       = "127.0.0.1:8080"
	DefaultStaticMaxAgeSecs = 3600
	DefaultAuditBuffer      = 256
)

// Normalize trims string fields and fills in defaults.
func Normalize(cfg *Config) {
	cfg.Server.ListenAddr = strings.TrimSpace(cfg.Server.ListenAddr)
	cfg.Storage.DBPath = strings.TrimSpace(cfg.Storage.DBPath)
	cfg.Storage.UploadsDir = strings.TrimSpace(cfg.Storage.UploadsDir)
	cfg.Templates.Dir = strings.TrimSpace(cfg.Templates.Dir)

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.StaticMaxAgeSecs <= 0 {
		cfg.Server.StaticMaxAgeSecs = DefaultStaticMaxAgeSecs
	}
	if cfg.Templates.MaxTokenLength <= 0 {
		cfg.Templates.MaxTokenLength = pathguard.DefaultMaxTokenLength
	}
	if cfg.Audit.Buffer <= 0 {
		cfg.Audit.Buffer = DefaultAuditBuffer
	}
}
