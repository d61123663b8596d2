// Package filex holds small filesystem helpers for serving the web client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JoinUnder resolves urlPath inside root. Dot-dot segments cannot climb
// above root.
func JoinUnder(root, urlPath string) string {
	rel := filepath.Clean("/" + strings.TrimPrefix(urlPath, "/"))
	return filepath.Join(root, rel)
}

// IsRegularFile reports whether path exists and is not a directory.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CheckStaticDir verifies dir is a directory containing index.html.
func CheckStaticDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if !IsRegularFile(filepath.Join(dir, "index.html")) {
		return fmt.Errorf("%s has no index.html", dir)
	}
	return nil
}
