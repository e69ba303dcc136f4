// Package security provides path validation for files the service opens.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars cannot appear in a database file path. "?" and "#" would be
// read as DSN parameters or fragments by the SQLite driver.
var forbiddenChars = []string{"\x00", "\n", "\r", "?", "#"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks for
// files that already exist. It rejects empty paths and forbidden characters.
func ValidateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}

	for _, char := range forbiddenChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("file path contains forbidden character %q: %q", char, path)
		}
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		abs, err := filepath.Abs(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve file path: %w", err)
		}
		cleanPath = abs
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}

// ValidateFilePathInDir validates path and ensures it stays within baseDir.
func ValidateFilePathInDir(path, baseDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("base directory cannot be empty")
	}

	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return "", err
	}

	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if cleanPath != base && !strings.HasPrefix(cleanPath, base+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes base directory: %s is not within %s", path, baseDir)
	}
	return cleanPath, nil
}
