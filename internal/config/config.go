// Package config loads and writes rask configuration files.
//
// A configuration file is a small YAML record naming the node, declaring the
// directory glob patterns that link it to nested configurations, and listing
// its explicit shell tasks. The loader attaches the resolved file location so
// later pipeline stages never touch the filesystem to answer "where is this
// configuration".
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/rask/internal/errors"
)

// DefaultFileName is the configuration filename assumed whenever an entry or
// a directory pattern names a directory instead of a file.
const DefaultFileName = "rask.yaml"

// Engine selects the strategy used to turn raw task declarations into
// runnable commands.
type Engine string

const (
	// EngineAuto merges explicit shell tasks with every auto-detected
	// package-manager manifest. The default.
	EngineAuto Engine = "auto"
	// EngineShell uses the explicit task mapping verbatim.
	EngineShell Engine = "shell"
	// EngineNpm reads scripts from package.json and runs them via npm.
	EngineNpm Engine = "npm"
	// EngineYarn reads scripts from package.json and runs them via yarn.
	EngineYarn Engine = "yarn"
	// EngineComposer reads scripts from composer.json and runs them via composer.
	EngineComposer Engine = "composer"
)

// UnmarshalYAML validates the engine value while decoding.
func (e *Engine) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	switch Engine(s) {
	case EngineAuto, EngineShell, EngineNpm, EngineYarn, EngineComposer:
		*e = Engine(s)
		return nil
	case "":
		*e = EngineAuto
		return nil
	default:
		return fmt.Errorf("unknown task engine %q (want shell, npm, yarn, composer, or auto)", s)
	}
}

// TaskEntry is one explicit task declaration.
type TaskEntry struct {
	Name    string
	Command string
}

// TaskList preserves the declaration order of the tasks mapping, which plain
// Go maps would lose.
type TaskList []TaskEntry

// UnmarshalYAML decodes a YAML mapping in document order.
func (t *TaskList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("tasks must be a mapping of name to command")
	}

	entries := make(TaskList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name, command string
		if err := value.Content[i].Decode(&name); err != nil {
			return err
		}
		if err := value.Content[i+1].Decode(&command); err != nil {
			return fmt.Errorf("task %q: %w", name, err)
		}
		entries = append(entries, TaskEntry{Name: name, Command: command})
	}

	*t = entries
	return nil
}

// MarshalYAML encodes the list back into a mapping, keeping order.
func (t TaskList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range t {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: entry.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: entry.Command},
		)
	}
	return node, nil
}

// File mirrors the on-disk configuration record.
type File struct {
	Name        string   `yaml:"name"`
	TaskEngine  Engine   `yaml:"taskEngine,omitempty"`
	Directories []string `yaml:"directories"`
	Tasks       TaskList `yaml:"tasks"`
}

// Source is one loaded configuration file plus its location context.
// Immutable after Load.
type Source struct {
	Name        string
	Engine      Engine
	Directories []string
	Tasks       TaskList
	FilePath    string
	DirPath     string
}

// Load reads a configuration file into a Source. The path must already be
// canonicalized; Load attaches it and its parent directory verbatim.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPathNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigParse, fmt.Sprintf("failed to read configuration: %s", path), err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigParseError(path, err)
	}

	engine := file.TaskEngine
	if engine == "" {
		engine = EngineAuto
	}

	return &Source{
		Name:        file.Name,
		Engine:      engine,
		Directories: file.Directories,
		Tasks:       file.Tasks,
		FilePath:    path,
		DirPath:     filepath.Dir(path),
	}, nil
}
