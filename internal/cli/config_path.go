package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

// defaultConfigName is the config file looked up in the working directory
// when --config is not given.
const defaultConfigName = "saferoot.yml"

// resolveConfigPath normalizes a config path, defaulting to the working
// directory's saferoot.yml.
func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigName
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}
