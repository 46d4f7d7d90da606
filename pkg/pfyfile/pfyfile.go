// SPDX-License-Identifier: MPL-2.0

// Package pfyfile defines the Pfyfile task model and its line-oriented
// parser. A Pfyfile declares named tasks, each an ordered sequence of
// command lines with optional environment, target hosts, and per-command
// language hints:
//
//	include "tasks/deploy.pf"
//	alias b = build
//
//	task build: Build the project binaries
//	    env CGO_ENABLED=0
//	    hosts web1, web2
//	    run go build ./...
//	    lang python: print("build metadata")
//
// Tasks are immutable once returned: the parser hands out fresh values and
// nothing in this package mutates them afterwards.
package pfyfile

import (
	"errors"
	"fmt"

	"pfrunner/pkg/types"
)

// DefaultFileName is the Pfyfile name searched for when no override is given.
const DefaultFileName = "Pfyfile.pf"

// ErrInvalidTask is the sentinel error wrapped by InvalidTaskError.
var ErrInvalidTask = errors.New("invalid task")

type (
	// Command is one executable line of a task. Lang is the optional
	// language hint; when set, Line is polyglot source (inline or a
	// @file / file: reference) rather than a shell command.
	Command struct {
		Line string
		Lang string
	}

	// Task is a named, ordered sequence of commands plus associated
	// environment and host metadata. Name is the unique, case-sensitive key.
	// Empty Hosts means local execution only.
	Task struct {
		Name        string
		Description string
		Commands    []Command
		Env         *types.EnvMap
		Hosts       []string
	}

	// File is a parsed Pfyfile: tasks in declaration order, alias
	// directives, and the include paths found in the root source.
	File struct {
		// FilePath is the absolute path the file was loaded from
		// (empty when parsed from raw text).
		FilePath string
		Tasks    []*Task
		Aliases  map[string]string
		Includes []string
	}

	// InvalidTaskError is returned when a task declaration is malformed.
	InvalidTaskError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidTask for errors.Is() compatibility.
func (e *InvalidTaskError) Unwrap() error { return ErrInvalidTask }

// Task returns the task with the given name, or nil. Lookup is
// case-sensitive.
func (f *File) Task(name string) *Task {
	for _, t := range f.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TaskNames returns task names in declaration order.
func (f *File) TaskNames() []string {
	names := make([]string, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		names = append(names, t.Name)
	}
	return names
}

// Summary returns the task description, falling back to a truncated first
// command line so listings always have something to show.
func (t *Task) Summary() string {
	if t.Description != "" {
		return t.Description
	}
	if len(t.Commands) == 0 {
		return ""
	}
	first := t.Commands[0].Line
	if len(first) > 50 {
		return first[:47] + "..."
	}
	return first
}
