// Package storetesting provides store fixtures for tests.
package storetesting

import (
	"testing"
	"time"

	"saferoot/internal/store"
	"saferoot/internal/testutil"
)

const defaultTimeout = 5 * time.Second

// Open opens a throwaway store at path and verifies it responds.
func Open(t testing.TB, path string) *store.Store {
	t.Helper()
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := testutil.Context(t, defaultTimeout)
	if err := s.DB().PingContext(ctx); err != nil {
		_ = s.Close()
		t.Fatalf("ping store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// SeedComponent inserts a page with one component and returns the component id.
func SeedComponent(t testing.TB, s *store.Store, c store.Component) string {
	t.Helper()
	ctx := testutil.Context(t, defaultTimeout)
	pageID, err := s.InsertPage(ctx, "page-"+t.Name(), "Test Page")
	if err != nil {
		t.Fatalf("insert page: %v", err)
	}
	c.PageID = pageID
	id, err := s.InsertComponent(ctx, c)
	if err != nil {
		t.Fatalf("insert component: %v", err)
	}
	return id
}
