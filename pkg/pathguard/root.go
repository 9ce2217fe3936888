// Package pathguard bounds filesystem access to operator-configured
// directories. It validates untrusted path candidates against a trusted
// root and untrusted name tokens against a strict character policy, so
// that no caller-supplied string reaches disk I/O unchecked.
package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config wires a trusted root directory and an optional rejection observer.
type Config struct {
	// Dir is the absolute path of the directory that bounds all access.
	Dir string
	// Observer receives rejection events. May be nil.
	Observer Observer
}

// Root is a trusted directory boundary. The canonical form is computed
// once at construction and never changes, so a Root is safe for
// concurrent use by any number of goroutines.
type Root struct {
	raw       string
	canonical string
	observer  Observer
}

// New canonicalizes and verifies a trusted root directory. The directory
// must exist, be absolute, and actually be a directory; any failure here
// is a configuration error that should abort startup, not a per-request
// rejection.
func New(cfg Config) (*Root, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("pathguard: root directory is required")
	}
	if !filepath.IsAbs(cfg.Dir) {
		return nil, fmt.Errorf("pathguard: root %q is not absolute", cfg.Dir)
	}
	raw := filepath.Clean(cfg.Dir)
	canonical, err := filepath.EvalSymlinks(raw)
	if err != nil {
		return nil, fmt.Errorf("pathguard: canonicalize root %q: %w", raw, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("pathguard: stat root %q: %w", canonical, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("pathguard: root %q is not a directory", canonical)
	}
	return &Root{raw: raw, canonical: canonical, observer: cfg.Observer}, nil
}

// Dir returns the root directory as configured, after cleaning.
func (r *Root) Dir() string {
	return r.raw
}

// Canonical returns the symlink-free form of the root directory.
func (r *Root) Canonical() string {
	return r.canonical
}
