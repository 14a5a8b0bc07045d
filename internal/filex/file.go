// Package filex has filesystem helpers for locating the client's data files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, if missing.
// Paths without a directory component are left alone.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// DefaultDataDir returns the per-user directory for client state,
// e.g. ~/.config/umlgen on Linux. It falls back to the working directory when
// the user config dir cannot be determined.
func DefaultDataDir(app string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return app
	}
	return filepath.Join(base, app)
}
