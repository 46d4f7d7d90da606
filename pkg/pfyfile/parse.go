// SPDX-License-Identifier: MPL-2.0

package pfyfile

import (
	"bufio"
	"fmt"
	"strings"

	"pfrunner/pkg/types"
)

const includePrefix = "include "

// ParseText parses Pfyfile source into a File. Include directives are
// collected but not followed; Load resolves them.
func ParseText(src string) (*File, error) {
	f := &File{Aliases: make(map[string]string)}

	var current *Task
	lineNo := 0

	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		indented := raw != line && current != nil

		switch {
		case !indented && strings.HasPrefix(line, includePrefix):
			f.Includes = append(f.Includes, StripQuotes(strings.TrimSpace(line[len(includePrefix):])))
			current = nil

		case !indented && strings.HasPrefix(line, "alias "):
			name, target, err := parseAlias(line, lineNo)
			if err != nil {
				return nil, err
			}
			f.Aliases[name] = target
			current = nil

		case !indented && strings.HasPrefix(line, "task "):
			t, err := parseTaskHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			if f.Task(t.Name) != nil {
				return nil, &InvalidTaskError{Name: t.Name, Reason: fmt.Sprintf("duplicate declaration on line %d", lineNo)}
			}
			f.Tasks = append(f.Tasks, t)
			current = t

		case indented:
			if err := parseTaskBody(current, line, lineNo); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("line %d: unexpected statement %q", lineNo, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pfyfile source: %w", err)
	}

	return f, nil
}

// parseTaskHeader handles `task <name>[: <description>]`.
func parseTaskHeader(line string, lineNo int) (*Task, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "task "))
	name := rest
	desc := ""
	if i := strings.Index(rest, ":"); i >= 0 {
		name = strings.TrimSpace(rest[:i])
		desc = strings.TrimSpace(rest[i+1:])
	}
	if name == "" {
		return nil, &InvalidTaskError{Name: name, Reason: fmt.Sprintf("missing task name on line %d", lineNo)}
	}
	if strings.ContainsAny(name, " \t") {
		return nil, &InvalidTaskError{Name: name, Reason: fmt.Sprintf("task name may not contain whitespace (line %d)", lineNo)}
	}
	return &Task{Name: name, Description: desc, Env: types.NewEnvMap()}, nil
}

// parseTaskBody handles one indented directive inside a task block.
func parseTaskBody(t *Task, line string, lineNo int) error {
	directive, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch directive {
	case "desc":
		t.Description = rest
	case "env":
		key, value, ok := strings.Cut(rest, "=")
		if !ok || !types.IsValidEnvVarName(key) {
			return &InvalidTaskError{Name: t.Name, Reason: fmt.Sprintf("malformed env directive on line %d", lineNo)}
		}
		t.Env.Set(key, StripQuotes(value))
	case "hosts":
		for _, h := range strings.Split(rest, ",") {
			if h = strings.TrimSpace(h); h != "" {
				t.Hosts = append(t.Hosts, h)
			}
		}
	case "run":
		if rest == "" {
			return &InvalidTaskError{Name: t.Name, Reason: fmt.Sprintf("empty run directive on line %d", lineNo)}
		}
		t.Commands = append(t.Commands, Command{Line: rest})
	case "lang":
		hint, src, ok := strings.Cut(rest, ":")
		hint = strings.TrimSpace(hint)
		if !ok || hint == "" {
			return &InvalidTaskError{Name: t.Name, Reason: fmt.Sprintf("malformed lang directive on line %d (want `lang <hint>: <source>`)", lineNo)}
		}
		t.Commands = append(t.Commands, Command{Line: strings.TrimSpace(src), Lang: hint})
	default:
		return &InvalidTaskError{Name: t.Name, Reason: fmt.Sprintf("unknown directive %q on line %d", directive, lineNo)}
	}
	return nil
}

// parseAlias handles `alias <name> = <task>`.
func parseAlias(line string, lineNo int) (string, string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "alias "))
	name, target, ok := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	target = strings.TrimSpace(target)
	if !ok || name == "" || target == "" {
		return "", "", fmt.Errorf("line %d: malformed alias directive (want `alias <name> = <task>`)", lineNo)
	}
	return name, target, nil
}

// StripQuotes removes one matching pair of surrounding single or double
// quotes, if present.
func StripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
