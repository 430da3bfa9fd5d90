// Package orchestrator wires the discovery, resolution, structure, selection,
// and execution stages into the operations the CLI exposes.
package orchestrator

import (
	"context"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/rask/internal/config"
	"github.com/felixgeelhaar/rask/internal/discover"
	"github.com/felixgeelhaar/rask/internal/errors"
	"github.com/felixgeelhaar/rask/internal/executor"
	"github.com/felixgeelhaar/rask/internal/log"
	"github.com/felixgeelhaar/rask/internal/selector"
	"github.com/felixgeelhaar/rask/internal/structure"
	"github.com/felixgeelhaar/rask/internal/taskengine"
)

// RunOptions configures one RunTask invocation.
type RunOptions struct {
	// Parallel runs each order level concurrently.
	Parallel bool

	// MaxParallel bounds parallel batch width; zero picks the default,
	// negative disables the bound.
	MaxParallel int

	// PrefixMatch selects every task whose key starts with the requested
	// name instead of requiring an exact match.
	PrefixMatch bool

	// RequireUniqueNames rejects runs where two discovered configurations
	// share a name.
	RequireUniqueNames bool

	// Stdout and Stderr receive task process output.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives pipeline progress. Defaults to the global logger.
	Logger *log.Logger
}

// RunTask resolves the entry, discovers every linked configuration, builds
// the tree, selects the named task across it, and executes the selection in
// dependency order. Any discovery, parse, or resolution error aborts before
// a single task runs; a partial task set is never executed.
func RunTask(ctx context.Context, entry, taskName string, opts RunOptions) (executor.Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	logger = logger.With("run_id", uuid.NewString(), "task", taskName)

	tree, err := loadTree(entry, opts.RequireUniqueNames, logger)
	if err != nil {
		return executor.Failure, err
	}

	mode := selector.MatchExact
	if opts.PrefixMatch {
		mode = selector.MatchPrefix
	}

	selected := selector.Select(tree, taskName, mode)
	logger.Info("selected tasks", "count", len(selected))

	return executor.Execute(ctx, selected, executor.Options{
		Parallel:    opts.Parallel,
		MaxParallel: opts.MaxParallel,
		Stdout:      opts.Stdout,
		Stderr:      opts.Stderr,
		Logger:      logger,
	})
}

// NodeTasks lists one configuration node's resolved tasks.
type NodeTasks struct {
	Name  string
	Dir   string
	Tasks []taskengine.Task
}

// ListTasks returns every discovered node with its resolved task set, in
// discovery order. The plain task-name union is available via TaskNames.
func ListTasks(entry string) ([]NodeTasks, error) {
	result, byPath, err := discoverAndResolve(entry)
	if err != nil {
		return nil, err
	}

	nodes := make([]NodeTasks, 0, len(result.Paths))
	for _, path := range result.Paths {
		resolved := byPath[path]
		nodes = append(nodes, NodeTasks{
			Name:  resolved.Source.Name,
			Dir:   resolved.Source.DirPath,
			Tasks: resolved.Tasks,
		})
	}
	return nodes, nil
}

// TaskNames returns the sorted union of task names across every discovered
// configuration reachable from entry.
func TaskNames(entry string) ([]string, error) {
	nodes, err := ListTasks(entry)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var names []string
	for _, node := range nodes {
		for _, task := range node.Tasks {
			if _, dup := seen[task.Key]; dup {
				continue
			}
			seen[task.Key] = struct{}{}
			names = append(names, task.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}

// InitConfig writes a fresh configuration file. The file-writing rule lives
// in the config package; this is the operation the init command consumes.
func InitConfig(path, name string) (string, error) {
	return config.WriteNew(path, name)
}

func loadTree(entry string, requireUniqueNames bool, logger *log.Logger) (*structure.Node, error) {
	resolvedEntry, err := config.ResolveEntry(entry)
	if err != nil {
		return nil, err
	}

	result, err := discover.Discover(resolvedEntry)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovery complete", "configs", len(result.Paths))

	byPath, err := resolveAll(result)
	if err != nil {
		return nil, err
	}

	if requireUniqueNames {
		if err := checkUniqueNames(result.Paths, byPath); err != nil {
			return nil, err
		}
	}

	return structure.Build(resolvedEntry, byPath)
}

func discoverAndResolve(entry string) (*discover.Result, map[string]*taskengine.Resolved, error) {
	resolvedEntry, err := config.ResolveEntry(entry)
	if err != nil {
		return nil, nil, err
	}

	result, err := discover.Discover(resolvedEntry)
	if err != nil {
		return nil, nil, err
	}

	byPath, err := resolveAll(result)
	if err != nil {
		return nil, nil, err
	}
	return result, byPath, nil
}

func resolveAll(result *discover.Result) (map[string]*taskengine.Resolved, error) {
	byPath := make(map[string]*taskengine.Resolved, len(result.Paths))
	for _, path := range result.Paths {
		resolved, err := taskengine.Resolve(result.Sources[path])
		if err != nil {
			return nil, err
		}
		byPath[path] = resolved
	}
	return byPath, nil
}

func checkUniqueNames(paths []string, byPath map[string]*taskengine.Resolved) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		name := byPath[path].Source.Name
		if _, dup := seen[name]; dup {
			return errors.NewDuplicateNameError(name, path)
		}
		seen[name] = path
	}
	return nil
}
