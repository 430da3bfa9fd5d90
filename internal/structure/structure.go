// Package structure reconstructs the parent/child tree of configurations by
// re-matching each node's directory patterns against the discovered path set.
//
// Discovery already guarantees the path set is finite and cycle-free, but the
// re-match could still introduce an edge back to an ancestor when a pattern
// is reflexive. Build therefore guards the recursion path with a visited set
// and a maximum depth, surfacing either as a configuration error.
package structure

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/felixgeelhaar/rask/internal/config"
	"github.com/felixgeelhaar/rask/internal/errors"
	"github.com/felixgeelhaar/rask/internal/taskengine"
)

// MaxDepth bounds tree recursion. Trees this deep are misconfigurations.
const MaxDepth = 64

// Node is one configuration in the reconstructed tree. Children keep the
// order of the declaring patterns, then sorted match order within a pattern.
type Node struct {
	Config   *taskengine.Resolved
	Children []*Node
}

// Build reconstructs the tree rooted at root from the resolved configurations
// keyed by canonical path.
func Build(root string, byPath map[string]*taskengine.Resolved) (*Node, error) {
	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	b := &builder{byPath: byPath, paths: paths, onPath: make(map[string]struct{})}
	return b.build(root, 0)
}

type builder struct {
	byPath map[string]*taskengine.Resolved
	paths  []string
	onPath map[string]struct{}
}

func (b *builder) build(path string, depth int) (*Node, error) {
	if depth > MaxDepth {
		return nil, errors.NewCycleDetectedError(path)
	}
	if _, active := b.onPath[path]; active {
		return nil, errors.NewCycleDetectedError(path)
	}

	resolved, ok := b.byPath[path]
	if !ok {
		return nil, errors.NewUnknownConfigPathError(path)
	}

	b.onPath[path] = struct{}{}
	defer delete(b.onPath, path)

	node := &Node{Config: resolved}
	claimed := make(map[string]struct{})
	for _, pattern := range resolved.Source.Directories {
		glob := config.GlobPattern(resolved.Source.DirPath, pattern)

		for _, candidate := range b.paths {
			// Self-matches (e.g. a "**" pattern) are ignored rather than
			// treated as cycles; a child claimed by an earlier pattern is
			// not attached twice.
			if candidate == path {
				continue
			}
			if _, dup := claimed[candidate]; dup {
				continue
			}
			matched, err := doublestar.PathMatch(glob, candidate)
			if err != nil {
				return nil, errors.NewGlobPatternError(pattern, err)
			}
			if !matched {
				continue
			}

			child, err := b.build(candidate, depth+1)
			if err != nil {
				return nil, err
			}
			claimed[candidate] = struct{}{}
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}
