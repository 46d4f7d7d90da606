// SPDX-License-Identifier: MPL-2.0

package pfyfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Find locates the Pfyfile to load. A non-empty fileArg is used verbatim
// (and must exist); otherwise the search walks from the working directory
// upward looking for fileName (DefaultFileName when empty).
func Find(fileArg, fileName string) (string, error) {
	if fileArg != "" {
		abs, err := filepath.Abs(fileArg)
		if err != nil {
			return "", fmt.Errorf("resolve pfyfile path %q: %w", fileArg, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("pfyfile not found: %s", abs)
		}
		return abs, nil
	}

	if fileName == "" {
		fileName = DefaultFileName
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %s or any parent directory", fileName, dir)
		}
		dir = parent
	}
}

// Load finds, reads, and parses a Pfyfile, then follows its include
// directives and merges their tasks and aliases into the result. Root
// declarations win on collision.
//
// Include problems never fail the load: each missing or unparseable include
// produces a warning error in the second return value, and the root task set
// remains fully usable. The caller decides whether to surface or discard
// those warnings.
func Load(fileArg, fileName string) (*File, []error, error) {
	path, err := Find(fileArg, fileName)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read pfyfile %s: %w", path, err)
	}

	root, err := ParseText(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root.FilePath = path

	var warnings []error
	for _, inc := range root.Includes {
		incPath, resolveErr := ResolveInclude(inc, filepath.Dir(path))
		if resolveErr != nil {
			warnings = append(warnings, resolveErr)
			continue
		}
		incData, readErr := os.ReadFile(incPath)
		if readErr != nil {
			warnings = append(warnings, fmt.Errorf("include file not found: %s", inc))
			continue
		}
		incFile, parseErr := ParseText(string(incData))
		if parseErr != nil {
			warnings = append(warnings, fmt.Errorf("could not process include file %s: %w", inc, parseErr))
			continue
		}
		for _, t := range incFile.Tasks {
			if root.Task(t.Name) == nil {
				root.Tasks = append(root.Tasks, t)
			}
		}
		for alias, target := range incFile.Aliases {
			if _, exists := root.Aliases[alias]; !exists {
				root.Aliases[alias] = target
			}
		}
	}

	return root, warnings, nil
}

// ResolveInclude resolves an include path first relative to the root file's
// directory, then relative to the current working directory when the first
// candidate does not exist. Absolute paths are returned as-is.
func ResolveInclude(include, rootDir string) (string, error) {
	if filepath.IsAbs(include) {
		return include, nil
	}
	candidate := filepath.Join(rootDir, include)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return candidate, nil
	}
	fallback := filepath.Join(cwd, include)
	if _, err := os.Stat(fallback); err == nil {
		return fallback, nil
	}
	// Neither location exists; report the primary candidate so the caller's
	// warning names a concrete path.
	return candidate, nil
}
