package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rask/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rask.yaml", `
name: acme
taskEngine: shell
directories:
  - packages/*
  - services/api
tasks:
  build: make build
  test: make test
`)

	src, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme", src.Name)
	assert.Equal(t, EngineShell, src.Engine)
	assert.Equal(t, []string{"packages/*", "services/api"}, src.Directories)
	assert.Equal(t, TaskList{
		{Name: "build", Command: "make build"},
		{Name: "test", Command: "make test"},
	}, src.Tasks)
	assert.Equal(t, path, src.FilePath)
	assert.Equal(t, dir, src.DirPath)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rask.yaml", "name: bare\n")

	src, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EngineAuto, src.Engine, "absent taskEngine defaults to auto")
	assert.Empty(t, src.Directories)
	assert.Empty(t, src.Tasks)
}

func TestLoadTaskOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rask.yaml", `
name: ordered
tasks:
  zeta: echo z
  alpha: echo a
  mid: echo m
`)

	src, err := Load(path)
	require.NoError(t, err)

	var names []string
	for _, task := range src.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names, "declaration order must survive decoding")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantCode errors.ErrorCode
	}{
		{
			name:     "missing file",
			path:     filepath.Join(dir, "absent.yaml"),
			wantCode: errors.ErrCodePathNotFound,
		},
		{
			name:     "malformed yaml",
			path:     writeFile(t, dir, "broken.yaml", "name: [unclosed\n"),
			wantCode: errors.ErrCodeConfigParse,
		},
		{
			name:     "unknown engine",
			path:     writeFile(t, dir, "engine.yaml", "name: x\ntaskEngine: gradle\n"),
			wantCode: errors.ErrCodeConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)

			var raskErr *errors.RaskError
			require.ErrorAs(t, err, &raskErr)
			assert.Equal(t, tt.wantCode, raskErr.Code)
		})
	}
}

func TestResolveEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rask.yaml", "name: root\n")

	t.Run("directory entry appends default filename", func(t *testing.T) {
		resolved, err := ResolveEntry(dir)
		require.NoError(t, err)
		assert.Equal(t, mustCanonical(t, path), resolved)
	})

	t.Run("file entry passes through", func(t *testing.T) {
		resolved, err := ResolveEntry(path)
		require.NoError(t, err)
		assert.Equal(t, mustCanonical(t, path), resolved)
	})

	t.Run("missing entry fails", func(t *testing.T) {
		_, err := ResolveEntry(filepath.Join(dir, "nope"))
		var raskErr *errors.RaskError
		require.ErrorAs(t, err, &raskErr)
		assert.Equal(t, errors.ErrCodePathNotFound, raskErr.Code)
	})

	t.Run("directory without configuration fails", func(t *testing.T) {
		empty := t.TempDir()
		_, err := ResolveEntry(empty)
		require.Error(t, err)
	})
}

func TestCanonicalizeCollapsesSymlinks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rask.yaml", "name: root\n")

	link := filepath.Join(dir, "alias.yaml")
	require.NoError(t, os.Symlink(path, link))

	direct, err := Canonicalize(path)
	require.NoError(t, err)
	viaLink, err := Canonicalize(link)
	require.NoError(t, err)

	assert.Equal(t, direct, viaLink, "two textual routes to one file must collapse")
}

func TestGlobPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{
			name:    "directory pattern gets default filename",
			pattern: "packages/*",
			want:    filepath.Join("/repo", "packages", "*", DefaultFileName),
		},
		{
			name:    "explicit yaml file untouched",
			pattern: "tools/build.yaml",
			want:    filepath.Join("/repo", "tools", "build.yaml"),
		},
		{
			name:    "bare star",
			pattern: "*",
			want:    filepath.Join("/repo", "*", DefaultFileName),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GlobPattern("/repo", tt.pattern))
		})
	}
}

func TestWriteNewRoundTrip(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteNew(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), written)

	src, err := Load(written)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(dir), src.Name, "name defaults to the directory name")
	assert.Equal(t, EngineAuto, src.Engine)
	assert.Empty(t, src.Directories)
	assert.Empty(t, src.Tasks)
}

func TestWriteNewRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteNew(dir, "first")
	require.NoError(t, err)

	_, err = WriteNew(dir, "second")
	var raskErr *errors.RaskError
	require.ErrorAs(t, err, &raskErr)
	assert.Equal(t, errors.ErrCodeAlreadyInitialised, raskErr.Code)
}

func mustCanonical(t *testing.T, path string) string {
	t.Helper()
	resolved, err := Canonicalize(path)
	require.NoError(t, err)
	return resolved
}
