// Package patch performs exact-text substitution in generated config files.
//
// Chain binaries emit config.toml, app.toml and genesis.json files whose
// interesting knobs are not all reachable through their own CLI flags. The
// bootstrap sequences rewrite those files in place by replacing known exact
// strings, which keeps the patching independent of each file's format.
package patch

import (
	"os"
	"strings"
)

// Replacement is a single exact-text substitution: every occurrence of Old
// is replaced with New.
type Replacement struct {
	Old string
	New string
}

// File applies all replacements to the file at path, rewriting it in place.
// The file is read and written whole; permissions are preserved.
func File(path string, replacements ...Replacement) error {
	info, err := os.Stat(path)
	if err != nil {
		return ErrPatchFile.Wrap(err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ErrPatchFile.Wrap(err.Error())
	}

	content := string(data)
	for _, r := range replacements {
		content = strings.ReplaceAll(content, r.Old, r.New)
	}

	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return ErrPatchFile.Wrap(err.Error())
	}

	return nil
}
