// Package taskengine turns the raw task declarations of a configuration into
// a normalized set of named, runnable tasks.
//
// Explicit shell tasks are taken verbatim. Package-manager engines synthesize
// one task per declared manifest script. The auto engine unions both: the
// merge is an explicit, ordered operation with a fixed precedence — explicit
// shell tasks first, then composer scripts, then node scripts — and the first
// source to claim a key keeps it.
package taskengine

import (
	"fmt"

	"github.com/felixgeelhaar/rask/internal/config"
	"github.com/felixgeelhaar/rask/internal/errors"
)

// Kind identifies which engine produced a task.
type Kind string

const (
	KindShell    Kind = "shell"
	KindNpm      Kind = "npm"
	KindYarn     Kind = "yarn"
	KindComposer Kind = "composer"
)

// Task is one named, runnable command.
type Task struct {
	Key        string
	Kind       Kind
	Invocation string
}

// Resolved supersedes a config.Source once its task set is known.
// Task keys are unique within one Resolved; ordering follows resolution
// precedence, then declaration order within each source.
type Resolved struct {
	Source *config.Source
	Tasks  []Task
}

// Resolve applies the configuration's task engine policy.
func Resolve(src *config.Source) (*Resolved, error) {
	var tasks []Task
	var err error

	switch src.Engine {
	case config.EngineShell:
		tasks = shellTasks(src)
	case config.EngineNpm:
		tasks, err = managerTasks(src, nodeManifest, KindNpm)
	case config.EngineYarn:
		tasks, err = managerTasks(src, nodeManifest, KindYarn)
	case config.EngineComposer:
		tasks, err = managerTasks(src, composerManifest, KindComposer)
	case config.EngineAuto:
		tasks, err = autoTasks(src)
	default:
		err = errors.NewConfigParseError(src.FilePath,
			fmt.Errorf("unknown task engine %q", src.Engine))
	}
	if err != nil {
		return nil, err
	}

	return &Resolved{Source: src, Tasks: dedupe(tasks)}, nil
}

func shellTasks(src *config.Source) []Task {
	tasks := make([]Task, 0, len(src.Tasks))
	for _, entry := range src.Tasks {
		tasks = append(tasks, Task{
			Key:        entry.Name,
			Kind:       KindShell,
			Invocation: entry.Command,
		})
	}
	return tasks
}

// managerTasks resolves an explicit package-manager engine. The manifest is
// required: its absence is a configuration error, not a silent no-op.
func managerTasks(src *config.Source, manifest string, kind Kind) ([]Task, error) {
	if !manifestPresent(src.DirPath, manifest) {
		return nil, errors.NewManifestMissingError(string(kind), src.DirPath)
	}

	names, err := readScripts(src.DirPath, manifest)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, Task{
			Key:        name,
			Kind:       kind,
			Invocation: fmt.Sprintf("%s run %s", kind, name),
		})
	}
	return tasks, nil
}

// autoTasks merges every detected source. A present-but-unparsable manifest
// still fails the node; skipping it would run a partial task set.
func autoTasks(src *config.Source) ([]Task, error) {
	tasks := shellTasks(src)

	if manifestPresent(src.DirPath, composerManifest) {
		composer, err := managerTasks(src, composerManifest, KindComposer)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, composer...)
	}

	if manifestPresent(src.DirPath, nodeManifest) {
		kind := KindNpm
		if manifestPresent(src.DirPath, yarnLockfile) {
			kind = KindYarn
		}
		node, err := managerTasks(src, nodeManifest, kind)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, node...)
	}

	return tasks, nil
}

// dedupe keeps the first task claiming each key, enforcing the precedence
// order the callers assembled the slice in.
func dedupe(tasks []Task) []Task {
	seen := make(map[string]struct{}, len(tasks))
	out := tasks[:0]
	for _, task := range tasks {
		if _, dup := seen[task.Key]; dup {
			continue
		}
		seen[task.Key] = struct{}{}
		out = append(out, task)
	}
	return out
}
