// SPDX-License-Identifier: MPL-2.0

package polyglot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pfrunner/internal/issue"
	"pfrunner/internal/shellcmd"
)

// ExtractSource separates a snippet command into source code and trailing
// arguments. A first token of the form `@path` or `file:path` loads the
// source from that file (relative paths resolve against baseDir); the
// remaining tokens become arguments, with an optional `--` separator
// dropped. Any other command is returned whole as inline source.
func ExtractSource(cmd, baseDir string) (source string, args []string, path string, err error) {
	tokens, err := shellcmd.Tokenize(cmd)
	if err != nil || len(tokens) == 0 {
		// Inline snippets are free-form text and need not tokenize cleanly.
		return cmd, nil, "", nil
	}

	first := tokens[0]
	var rel string
	switch {
	case strings.HasPrefix(first, "@"):
		rel = first[1:]
	case strings.HasPrefix(first, "file:"):
		rel = first[len("file:"):]
	default:
		return cmd, nil, "", nil
	}

	if baseDir == "" {
		return "", nil, "", &issue.SyntaxError{
			Message:     "cannot resolve snippet source file: no base directory available",
			Suggestions: []string{"Ensure the task file is in a valid directory"},
		}
	}

	full := rel
	if !filepath.IsAbs(rel) {
		full = filepath.Join(baseDir, rel)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", nil, "", &issue.SyntaxError{
			Message:     fmt.Sprintf("snippet source file not found: %s", full),
			FilePath:    full,
			Suggestions: []string{"Check that the file path is correct and the file exists"},
			Cause:       err,
		}
	}

	rest := tokens[1:]
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		rest = nil
	}
	return string(data), rest, full, nil
}
