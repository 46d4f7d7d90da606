// SPDX-License-Identifier: MPL-2.0

// Package alias resolves short names to task invocations. Aliases come from
// the task file itself plus an optional per-user overlay; loading is
// best-effort and never blocks execution.
package alias

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"pfrunner/pkg/pfyfile"
)

// userOverlayPath is relative to the user config directory.
const userOverlayPath = "pf/aliases.yaml"

// Map builds the effective alias table for a loaded task file: file-level
// aliases first, user overlay entries on top. Any load failure degrades to
// whatever was gathered so far.
func Map(file *pfyfile.File) map[string]string {
	out := map[string]string{}
	if file != nil {
		for name, task := range file.Aliases {
			out[name] = task
		}
	}
	overlay, err := loadUserOverlay()
	if err != nil {
		log.Debug("skipping user alias overlay", "err", err)
		return out
	}
	for name, task := range overlay {
		out[name] = task
	}
	return out
}

// loadUserOverlay reads the per-user alias file. A missing file is normal
// and returns an empty map.
func loadUserOverlay() (map[string]string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, userOverlayPath))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var overlay map[string]string
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}
	if overlay == nil {
		overlay = map[string]string{}
	}
	return overlay, nil
}

// Reverse inverts an alias table into task -> sorted alias names, for
// listings.
func Reverse(aliases map[string]string) map[string][]string {
	out := map[string][]string{}
	for name, task := range aliases {
		out[task] = append(out[task], name)
	}
	for task := range out {
		slices.Sort(out[task])
	}
	return out
}

// Rewrite maps a leading alias onto its task invocation: `pf deploy ...`
// becomes `pf run <task> ...` when deploy is an alias and not a reserved
// command name. Anything else passes through untouched.
func Rewrite(args []string, aliases map[string]string, reserved map[string]bool) []string {
	if len(args) == 0 {
		return args
	}
	name := args[0]
	if reserved[name] {
		return args
	}
	task, ok := aliases[name]
	if !ok {
		return args
	}
	return append([]string{"run", task}, args[1:]...)
}
