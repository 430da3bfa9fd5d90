package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rask/internal/errors"
	"github.com/felixgeelhaar/rask/internal/selector"
)

// appendTask builds a task that appends a marker line to a shared log file,
// giving tests an observable execution order.
func appendTask(t *testing.T, logFile, marker string, order uint) selector.SelectedTask {
	t.Helper()
	return selector.SelectedTask{
		Command:    fmt.Sprintf("echo %s >> %s", marker, logFile),
		WorkingDir: filepath.Dir(logFile),
		Order:      order,
	}
}

func readMarkers(t *testing.T, logFile string) []string {
	t.Helper()
	data, err := os.ReadFile(logFile)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Fields(string(data))
}

func TestExecuteEmptyIsSuccess(t *testing.T) {
	outcome, err := Execute(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, Success, outcome)
}

func TestExecuteDeepestOrderFirst(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "order.log")

	tasks := []selector.SelectedTask{
		appendTask(t, logFile, "root", 0),
		appendTask(t, logFile, "mid", 1),
		appendTask(t, logFile, "leaf", 2),
	}

	outcome, err := Execute(context.Background(), tasks, Options{})
	require.NoError(t, err)
	assert.Equal(t, Success, outcome)
	assert.Equal(t, []string{"leaf", "mid", "root"}, readMarkers(t, logFile))
}

func TestExecuteSequentialBatchOrder(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "order.log")

	tasks := []selector.SelectedTask{
		appendTask(t, logFile, "first", 0),
		appendTask(t, logFile, "second", 0),
		appendTask(t, logFile, "third", 0),
	}

	_, err := Execute(context.Background(), tasks, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, readMarkers(t, logFile))
}

func TestExecuteSequentialFailureAbortsBatch(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "order.log")

	tasks := []selector.SelectedTask{
		appendTask(t, logFile, "ran", 0),
		{Command: "exit 7", WorkingDir: dir, Order: 0},
		appendTask(t, logFile, "never", 0),
	}

	outcome, err := Execute(context.Background(), tasks, Options{})
	assert.Equal(t, Failure, outcome)

	var raskErr *errors.RaskError
	require.ErrorAs(t, err, &raskErr)
	assert.Equal(t, errors.ErrCodeTaskFailed, raskErr.Code)
	assert.Contains(t, raskErr.Message, "exit code 7")

	assert.Equal(t, []string{"ran"}, readMarkers(t, logFile),
		"tasks after the failure must not start")
}

func TestExecuteFailingBatchStopsShallowerBatches(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "order.log")

	tasks := []selector.SelectedTask{
		appendTask(t, logFile, "root", 0),
		{Command: "exit 1", WorkingDir: dir, Order: 1},
	}

	outcome, err := Execute(context.Background(), tasks, Options{})
	require.Error(t, err)
	assert.Equal(t, Failure, outcome)
	assert.Empty(t, readMarkers(t, logFile), "the order-0 batch must never start")
}

func TestExecuteParallelSiblingsAllAttempted(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "order.log")

	// One sibling fails fast; the slower one must still run to completion.
	tasks := []selector.SelectedTask{
		{Command: "exit 1", WorkingDir: dir, Order: 1},
		{Command: fmt.Sprintf("sleep 0.2 && echo survivor >> %s", logFile), WorkingDir: dir, Order: 1},
		appendTask(t, logFile, "root", 0),
	}

	outcome, err := Execute(context.Background(), tasks, Options{Parallel: true})
	assert.Equal(t, Failure, outcome)
	require.Error(t, err)

	markers := readMarkers(t, logFile)
	assert.Contains(t, markers, "survivor", "a started sibling is never cancelled")
	assert.NotContains(t, markers, "root", "the shallower batch must not start")
}

func TestExecuteParallelBarrierBetweenOrders(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "order.log")

	// The slow leaf must land before anything at order 0 starts.
	tasks := []selector.SelectedTask{
		{Command: fmt.Sprintf("sleep 0.2 && echo slow-leaf >> %s", logFile), WorkingDir: dir, Order: 1},
		appendTask(t, logFile, "fast-leaf", 1),
		appendTask(t, logFile, "root", 0),
	}

	outcome, err := Execute(context.Background(), tasks, Options{Parallel: true})
	require.NoError(t, err)
	assert.Equal(t, Success, outcome)

	markers := readMarkers(t, logFile)
	require.Len(t, markers, 3)
	assert.Equal(t, "root", markers[2], "order 0 runs only after the whole order-1 batch")
}

func TestExecuteBoundedParallelism(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "order.log")

	var tasks []selector.SelectedTask
	for i := 0; i < 5; i++ {
		tasks = append(tasks, appendTask(t, logFile, fmt.Sprintf("t%d", i), 0))
	}

	outcome, err := Execute(context.Background(), tasks, Options{Parallel: true, MaxParallel: 2})
	require.NoError(t, err)
	assert.Equal(t, Success, outcome)
	assert.Len(t, readMarkers(t, logFile), 5)
}

func TestExecuteSpawnFailure(t *testing.T) {
	tasks := []selector.SelectedTask{
		{Command: "true", WorkingDir: "/nonexistent-rask-test-dir", Order: 0},
	}

	outcome, err := Execute(context.Background(), tasks, Options{})
	assert.Equal(t, Failure, outcome)

	var raskErr *errors.RaskError
	require.ErrorAs(t, err, &raskErr)
	assert.Equal(t, errors.ErrCodeSpawnFailed, raskErr.Code)
}

func TestExecuteStreamsTaskOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	tasks := []selector.SelectedTask{
		{Command: "echo to-stdout && echo to-stderr >&2", WorkingDir: t.TempDir(), Order: 0},
	}

	_, err := Execute(context.Background(), tasks, Options{Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "to-stdout")
	assert.Contains(t, stderr.String(), "to-stderr")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
}
