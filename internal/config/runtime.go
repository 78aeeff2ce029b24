package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultRuntimeDir = ".aide"

// GetRuntimePath resolves AIDE_RUNTIME_PATH. Relative paths and a leading
// "~/" are taken from the home directory.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("AIDE_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimeDir
	}
	path = strings.TrimPrefix(path, "~/")

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return filepath.Clean(path)
}
