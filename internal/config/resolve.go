package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/rask/internal/errors"
)

// ResolveEntry turns a user-supplied entry (file or directory, possibly
// relative) into the canonical path of a configuration file.
func ResolveEntry(target string) (string, error) {
	resolved, err := Canonicalize(target)
	if err != nil {
		return "", errors.NewPathNotFoundError(target)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.NewPathNotFoundError(target)
	}

	if info.IsDir() {
		resolved = filepath.Join(resolved, DefaultFileName)
		if _, err := os.Stat(resolved); err != nil {
			return "", errors.NewPathNotFoundError(resolved)
		}
	}

	return resolved, nil
}

// Canonicalize makes a path absolute and resolves symlinks so that two
// textual routes to the same file collapse to one map key.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// GlobPattern joins a declared directory pattern to the directory of its
// configuration and appends the default filename unless the pattern already
// names a YAML file. Discovery and structure building share this rule so the
// edges they derive agree.
func GlobPattern(dirPath, pattern string) string {
	joined := filepath.Join(dirPath, pattern)
	if !strings.HasSuffix(joined, ".yaml") {
		joined = filepath.Join(joined, DefaultFileName)
	}
	return joined
}
