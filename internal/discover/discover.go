// Package discover walks the glob-declared links between configuration files
// and returns the full set of reachable configuration paths.
package discover

import (
	stderrors "errors"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/felixgeelhaar/rask/internal/config"
	"github.com/felixgeelhaar/rask/internal/errors"
	"github.com/felixgeelhaar/rask/internal/log"
)

// Result holds everything discovery learned in one traversal. Paths keeps
// insertion order; Sources carries the configurations that were already
// loaded along the way so later stages do not reparse them.
type Result struct {
	Paths   []string
	Sources map[string]*config.Source
}

// Discover performs a worklist traversal from the canonicalized entry path.
// Every path enters the found set exactly once, which keeps the traversal
// finite even when several ancestors declare patterns matching the same file
// or when patterns form a directory cycle.
func Discover(entry string) (*Result, error) {
	logger := log.DefaultLogger()

	result := &Result{
		Paths:   []string{entry},
		Sources: make(map[string]*config.Source),
	}
	found := map[string]struct{}{entry: {}}
	stack := []string{entry}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		src, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		result.Sources[path] = src

		for _, pattern := range src.Directories {
			glob := config.GlobPattern(src.DirPath, pattern)

			matches, err := doublestar.FilepathGlob(glob)
			if err != nil {
				if stderrors.Is(err, doublestar.ErrBadPattern) {
					return nil, errors.NewGlobPatternError(pattern, err)
				}
				return nil, err
			}

			logger.Debug("expanded directory pattern",
				"config", path, "pattern", pattern, "matches", len(matches))

			for _, match := range matches {
				canonical, err := config.Canonicalize(match)
				if err != nil {
					return nil, errors.NewPathNotFoundError(match)
				}
				if _, seen := found[canonical]; seen {
					continue
				}
				found[canonical] = struct{}{}
				result.Paths = append(result.Paths, canonical)
				stack = append(stack, canonical)
			}
		}
	}

	return result, nil
}
