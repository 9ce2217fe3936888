package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks field shape after normalization. Existence of the root
// directories is deliberately left to startup (pathguard.New): validation
// here must stay filesystem-free so it can run anywhere.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Storage.DBPath == "" {
		add("storage.db_path", "is required")
	}
	checkRootDir(add, "storage.uploads_dir", cfg.Storage.UploadsDir)
	checkRootDir(add, "templates.dir", cfg.Templates.Dir)

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// checkRootDir requires a trusted root to be configured as an absolute path.
func checkRootDir(add func(field, message string), field, dir string) {
	if dir == "" {
		add(field, "is required")
		return
	}
	if !filepath.IsAbs(dir) {
		add(field, fmt.Sprintf("must be an absolute path, got %q", dir))
	}
}
