// Package executor runs selected tasks grouped by dependency order.
//
// Orders execute from deepest to the root, with a strict barrier between
// levels: no task at order n-1 starts before every task at order n has
// finished. Within a level, sequential mode stops at the first failure;
// parallel mode starts every task and waits for all of them, so a failing
// sibling never cancels one already running.
package executor

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	osexec "os/exec"
	"sync"

	"github.com/felixgeelhaar/rask/internal/errors"
	"github.com/felixgeelhaar/rask/internal/log"
	"github.com/felixgeelhaar/rask/internal/selector"
)

// Outcome is the terminal result of a full run.
type Outcome int

const (
	// Success means every batch completed, or there was nothing to run.
	Success Outcome = iota
	// Failure means a batch reported at least one failed task.
	Failure
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failure"
}

// DefaultMaxParallel bounds parallel batch width when the caller does not
// choose one. Unbounded fan-out on very wide trees is a scalability trap.
const DefaultMaxParallel = 8

// Options configures a run.
type Options struct {
	// Parallel runs each batch concurrently instead of in selection order.
	Parallel bool

	// MaxParallel limits concurrent tasks in a parallel batch. Zero means
	// DefaultMaxParallel; negative means unbounded.
	MaxParallel int

	// Stdout and Stderr receive the task processes' streams. Defaults to
	// the rask process's own streams.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives batch and task progress. Defaults to the global logger.
	Logger *log.Logger
}

// Execute runs all tasks, deepest order first. The returned error describes
// the first failure and always accompanies a Failure outcome.
func Execute(ctx context.Context, tasks []selector.SelectedTask, opts Options) (Outcome, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = log.DefaultLogger()
	}

	if len(tasks) == 0 {
		return Success, nil
	}

	batches := make(map[uint][]selector.SelectedTask)
	var maxOrder uint
	for _, task := range tasks {
		batches[task.Order] = append(batches[task.Order], task)
		if task.Order > maxOrder {
			maxOrder = task.Order
		}
	}

	for order := int(maxOrder); order >= 0; order-- {
		batch := batches[uint(order)]
		if len(batch) == 0 {
			continue
		}

		opts.Logger.Info("running batch",
			"order", order, "tasks", len(batch), "parallel", opts.Parallel)

		var err error
		if opts.Parallel {
			err = runParallel(ctx, batch, opts)
		} else {
			err = runSequential(ctx, batch, opts)
		}
		if err != nil {
			// Shallower batches never start once a batch has failed.
			return Failure, err
		}
	}

	return Success, nil
}

// runSequential runs the batch in selection order, aborting on the first
// failure without starting the remaining tasks.
func runSequential(ctx context.Context, batch []selector.SelectedTask, opts Options) error {
	for _, task := range batch {
		if err := runTask(ctx, task, opts); err != nil {
			return err
		}
	}
	return nil
}

// runParallel starts every task in the batch and joins at the barrier. All
// tasks run to completion even after one has failed; the aggregate verdict
// is decided only once the whole batch has finished.
func runParallel(ctx context.Context, batch []selector.SelectedTask, opts Options) error {
	limit := opts.MaxParallel
	if limit == 0 {
		limit = DefaultMaxParallel
	}

	var sem chan struct{}
	if limit > 0 {
		sem = make(chan struct{}, limit)
	}

	failures := make([]error, len(batch))
	var wg sync.WaitGroup

	for i, task := range batch {
		wg.Add(1)
		go func(index int, t selector.SelectedTask) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[index] = errors.NewWorkerPanicError(t.Command, r)
				}
			}()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			failures[index] = runTask(ctx, t, opts)
		}(i, task)
	}

	wg.Wait()

	for _, err := range failures {
		if err != nil {
			return err
		}
	}
	return nil
}

// runTask spawns one command through the shell, in the task's working
// directory, streaming its output through.
func runTask(ctx context.Context, task selector.SelectedTask, opts Options) error {
	opts.Logger.Debug("starting task",
		"command", task.Command, "dir", task.WorkingDir, "order", task.Order)

	cmd := osexec.CommandContext(ctx, "sh", "-c", task.Command)
	cmd.Dir = task.WorkingDir
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *osexec.ExitError
	if stderrors.As(err, &exitErr) {
		failure := errors.NewTaskFailedError(task.Command, exitErr.ExitCode())
		opts.Logger.WithError(failure).Error("task failed")
		return failure
	}

	failure := errors.NewSpawnFailedError(task.Command, err)
	opts.Logger.WithError(failure).Error("task could not start")
	return failure
}
