package pathguard

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolved is a canonical absolute path proven to live under a trusted
// root. The zero value is invalid; the only way to obtain a usable
// Resolved is through Root.Resolve, which keeps unvalidated strings out
// of the I/O layer at the type level.
type Resolved struct {
	path string
}

// Path returns the canonical path for the I/O layer. Callers should pass
// it to open/read immediately and discard it rather than cache or log it.
func (p Resolved) Path() string {
	return p.path
}

// Resolve validates an untrusted candidate against the root and returns
// its canonical location. Each gate is ordered and terminal: structural
// traversal scan, canonicalization, containment against the canonical
// root, and a regular-file check. The joined pre-canonical path is used
// only for lookup and never returned.
func (r *Root) Resolve(candidate string) (Resolved, error) {
	if candidate == "" {
		return Resolved{}, r.reject(candidate, KindEmpty)
	}
	if strings.ContainsRune(candidate, 0) {
		return Resolved{}, r.reject(candidate, KindInvalidCharacter)
	}
	// Scan logical components rather than substrings so that "..data"
	// stays legal while every real parent reference is caught. Both
	// separators are treated as boundaries regardless of host platform.
	if hasParentComponent(candidate) {
		return Resolved{}, r.reject(candidate, KindTraversalAttempt)
	}

	joined := candidate
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(r.raw, joined)
	}
	joined = filepath.Clean(joined)

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// Missing file, dangling symlink, unreadable component: all
		// collapse into not_found so the caller leaks no extra oracle.
		return Resolved{}, r.reject(candidate, KindNotFound)
	}

	if !contains(r.canonical, canonical) {
		return Resolved{}, r.reject(candidate, KindOutOfBounds)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return Resolved{}, r.reject(candidate, KindNotFound)
	}
	if !info.Mode().IsRegular() {
		return Resolved{}, r.reject(candidate, KindNotAFile)
	}

	return Resolved{path: canonical}, nil
}

// reject notifies the observer and builds the rejection error.
func (r *Root) reject(raw string, kind Kind) error {
	notify(r.observer, raw, kind)
	return &RejectionError{Kind: kind, Input: raw}
}

// hasParentComponent reports whether any logical path component is a
// parent-directory reference. Splitting on both slash styles keeps the
// check meaningful for candidates written with foreign separators.
func hasParentComponent(candidate string) bool {
	for _, part := range strings.FieldsFunc(candidate, isSeparator) {
		if part == ".." {
			return true
		}
	}
	return false
}

// isSeparator treats both slash styles as component boundaries.
func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// contains reports whether path sits under root by path components, so a
// sibling like /uploads-evil never passes for root /uploads.
func contains(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
