// Package selector walks the configuration tree and picks every task
// matching a requested name, tagging each with its dependency order.
package selector

import (
	"strings"

	"github.com/felixgeelhaar/rask/internal/structure"
)

// MatchMode controls how a requested name is compared against task keys.
type MatchMode int

const (
	// MatchExact selects tasks whose key equals the requested name.
	MatchExact MatchMode = iota
	// MatchPrefix selects tasks whose key starts with the requested name,
	// supporting grouped names like "build" matching "build:web".
	MatchPrefix
)

// SelectedTask is one command ready for execution. Order is the node's
// distance from the tree root; deeper tasks run first.
type SelectedTask struct {
	Command    string
	WorkingDir string
	Order      uint
}

// Select traverses depth-first from root. An empty result is not an error;
// the execution engine treats it as a trivially successful run.
func Select(root *structure.Node, name string, mode MatchMode) []SelectedTask {
	var selected []SelectedTask
	walk(root, name, mode, 0, &selected)
	return selected
}

func walk(node *structure.Node, name string, mode MatchMode, depth uint, out *[]SelectedTask) {
	for _, task := range node.Config.Tasks {
		if !matches(task.Key, name, mode) {
			continue
		}
		*out = append(*out, SelectedTask{
			Command:    task.Invocation,
			WorkingDir: node.Config.Source.DirPath,
			Order:      depth,
		})
	}

	for _, child := range node.Children {
		walk(child, name, mode, depth+1, out)
	}
}

func matches(key, name string, mode MatchMode) bool {
	if mode == MatchPrefix {
		return strings.HasPrefix(key, name)
	}
	return key == name
}
