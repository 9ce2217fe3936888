package pathguard

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestRoot builds a Root over a temp directory with an optional observer.
func newTestRoot(t *testing.T, obs Observer) (*Root, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := New(Config{Dir: dir, Observer: obs})
	if err != nil {
		t.Fatalf("new root: %v", err)
	}
	return root, dir
}

// writeFile creates a file with parents under dir and returns its path.
func writeFile(t *testing.T, dir string, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// TestResolveBoundarySuccess ensures a dated upload path resolves to its
// canonical location under the root.
func TestResolveBoundarySuccess(t *testing.T) {
	root, dir := newTestRoot(t, nil)
	abs := writeFile(t, dir, "2024/01/01/abc.jpg")

	resolved, err := root.Resolve(abs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want, err := filepath.EvalSymlinks(abs)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	if resolved.Path() != want {
		t.Fatalf("resolved = %q, want %q", resolved.Path(), want)
	}
}

// TestResolveRelativeCandidate ensures relative candidates join onto the root.
func TestResolveRelativeCandidate(t *testing.T) {
	root, dir := newTestRoot(t, nil)
	writeFile(t, dir, "sub/data.txt")

	resolved, err := root.Resolve("sub/data.txt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(resolved.Path()) != "data.txt" {
		t.Fatalf("resolved = %q", resolved.Path())
	}
	if !contains(root.Canonical(), resolved.Path()) {
		t.Fatalf("resolved %q escapes root %q", resolved.Path(), root.Canonical())
	}
}

// TestResolveTraversalRejected ensures parent references are caught on the
// logical components regardless of separator style.
func TestResolveTraversalRejected(t *testing.T) {
	root, _ := newTestRoot(t, nil)
	cases := []struct {
		name      string
		candidate string
	}{
		{"unix traversal", "../../../etc/passwd"},
		{"windows traversal", `..\..\..\windows\system32\config\sam`},
		{"embedded traversal", "uploads/../../../etc/passwd"},
		{"bare parent", ".."},
		{"trailing parent", "uploads/.."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := root.Resolve(tc.candidate)
			kind, ok := KindOf(err)
			if !ok {
				t.Fatalf("expected rejection, got %v", err)
			}
			if kind != KindTraversalAttempt {
				t.Fatalf("kind = %s, want %s", kind, KindTraversalAttempt)
			}
		})
	}
}

// TestResolveDotComponentsAllowed ensures dots that are not parent
// references survive the structural scan.
func TestResolveDotComponentsAllowed(t *testing.T) {
	root, dir := newTestRoot(t, nil)
	writeFile(t, dir, "..data")

	if _, err := root.Resolve("..data"); err != nil {
		t.Fatalf("expected ..data to resolve, got %v", err)
	}
	writeFile(t, dir, "a.txt")
	if _, err := root.Resolve("./a.txt"); err != nil {
		t.Fatalf("expected ./a.txt to resolve, got %v", err)
	}
}

// TestResolveRejectionKinds covers the per-gate rejection taxonomy.
func TestResolveRejectionKinds(t *testing.T) {
	root, dir := newTestRoot(t, nil)
	if err := os.MkdirAll(filepath.Join(dir, "folder"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	outside := writeFile(t, t.TempDir(), "secret.txt")

	cases := []struct {
		name      string
		candidate string
		kind      Kind
	}{
		{"empty", "", KindEmpty},
		{"nul byte", "a\x00b", KindInvalidCharacter},
		{"missing file", "missing.txt", KindNotFound},
		{"directory", "folder", KindNotAFile},
		{"root itself", dir, KindNotAFile},
		{"absolute escape", outside, KindOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := root.Resolve(tc.candidate)
			kind, ok := KindOf(err)
			if !ok {
				t.Fatalf("expected rejection, got %v", err)
			}
			if kind != tc.kind {
				t.Fatalf("kind = %s, want %s", kind, tc.kind)
			}
		})
	}
}

// TestResolveSiblingPrefixRejected ensures containment is checked by path
// component, not raw string prefix.
func TestResolveSiblingPrefixRejected(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	evil := writeFile(t, base, "uploads-evil/pwn.txt")

	root, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatalf("new root: %v", err)
	}
	_, err = root.Resolve(evil)
	kind, ok := KindOf(err)
	if !ok || kind != KindOutOfBounds {
		t.Fatalf("expected out_of_bounds, got %v", err)
	}
}

// TestResolveIdempotent ensures repeated resolutions agree on outcome and path.
func TestResolveIdempotent(t *testing.T) {
	root, dir := newTestRoot(t, nil)
	abs := writeFile(t, dir, "stable.bin")

	first, err := root.Resolve(abs)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := root.Resolve(abs)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.Path() != second.Path() {
		t.Fatalf("paths differ: %q vs %q", first.Path(), second.Path())
	}

	_, err1 := root.Resolve("missing.txt")
	_, err2 := root.Resolve("missing.txt")
	k1, _ := KindOf(err1)
	k2, _ := KindOf(err2)
	if k1 != k2 {
		t.Fatalf("rejection kinds differ: %s vs %s", k1, k2)
	}
}

// TestResolveObserverSeesKindAndRawInput ensures the audit hook receives the
// raw candidate and the internal kind, including the out_of_bounds versus
// not_found distinction the external caller is expected to hide.
func TestResolveObserverSeesKindAndRawInput(t *testing.T) {
	type event struct {
		raw  string
		kind Kind
	}
	var events []event
	root, _ := newTestRoot(t, ObserverFunc(func(raw string, kind Kind) {
		events = append(events, event{raw, kind})
	}))

	_, _ = root.Resolve("../../../etc/passwd")
	_, _ = root.Resolve("missing.txt")

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].raw != "../../../etc/passwd" || events[0].kind != KindTraversalAttempt {
		t.Fatalf("first event = %+v", events[0])
	}
	if events[1].raw != "missing.txt" || events[1].kind != KindNotFound {
		t.Fatalf("second event = %+v", events[1])
	}
}
