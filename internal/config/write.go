package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/rask/internal/errors"
)

// WriteNew creates a fresh configuration file at path. The path may name a
// directory, in which case the default filename is appended. An existing
// configuration is never overwritten.
func WriteNew(path, name string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		abs = filepath.Join(abs, DefaultFileName)
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		return "", errors.NewAlreadyInitialisedError(abs)
	}

	if name == "" {
		name = filepath.Base(filepath.Dir(abs))
	}

	file := File{
		Name:        name,
		TaskEngine:  EngineAuto,
		Directories: []string{},
		Tasks:       TaskList{},
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return "", fmt.Errorf("marshal configuration: %w", err)
	}

	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("write configuration: %w", err)
	}

	return abs, nil
}
