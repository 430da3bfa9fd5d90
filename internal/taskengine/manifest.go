package taskengine

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/rask/internal/errors"
)

// Auxiliary manifest filenames consumed read-only.
const (
	nodeManifest     = "package.json"
	composerManifest = "composer.json"
	yarnLockfile     = "yarn.lock"
)

// manifestPresent reports whether a manifest file exists in dir.
func manifestPresent(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

// readScripts extracts the script names declared in a JSON manifest, in
// document order. Composer scripts may map to a list of commands; only the
// name matters here, since the invocation always goes through the package
// manager.
func readScripts(dir, name string) ([]string, error) {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewManifestInvalidError(path, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.NewManifestInvalidError(path, nil).
			WithSuggestion("Run the manifest through a JSON validator")
	}

	scripts := gjson.GetBytes(data, "scripts")
	if !scripts.Exists() {
		return nil, nil
	}
	if !scripts.IsObject() {
		return nil, errors.NewManifestInvalidError(path, nil).
			WithSuggestion("The scripts field must be an object of name to command")
	}

	var names []string
	scripts.ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names, nil
}
