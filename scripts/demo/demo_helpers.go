package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// dirOf returns the parent directory for a file path.
func dirOf(path string) string {
	if path == "" {
		return "."
	}
	if idx := len(path) - 1; idx >= 0 && path[idx] == os.PathSeparator {
		return path
	}
	return filepath.Dir(path)
}

// removeIfExists deletes an existing database file so runs start fresh.
func removeIfExists(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("stat database: %w", err)
}

// deterministicID generates a repeatable UUID for demo rows.
func deterministicID(prefix string, index int) string {
	return uuid.NewSHA1(demoNamespace, []byte(fmt.Sprintf("%s-%d", prefix, index))).String()
}

// demoNamespace ensures stable UUIDs across demo runs.
var demoNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
