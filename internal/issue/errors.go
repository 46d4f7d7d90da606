// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"pfrunner/pkg/types"
)

var (
	// ErrSyntax is the sentinel error wrapped by SyntaxError.
	ErrSyntax = errors.New("syntax error")
	// ErrExecution is the sentinel error wrapped by ExecutionError.
	ErrExecution = errors.New("execution error")
	// ErrEnvironment is the sentinel error wrapped by EnvironmentError.
	ErrEnvironment = errors.New("environment error")
)

type (
	// SyntaxError reports a malformed task file or polyglot source
	// reference. FilePath names the offending resource when known.
	SyntaxError struct {
		Message     string
		FilePath    string
		Suggestions []string
		Cause       error
	}

	// ExecutionError reports a command that could not be safely built or a
	// spawned process / remote connection that failed. The attempted command
	// and resolved environment travel with the error for diagnostics.
	ExecutionError struct {
		Message     string
		Command     string
		Env         *types.EnvMap
		Suggestions []string
		Cause       error
	}

	// EnvironmentError reports a problem with the (usually remote)
	// execution environment itself rather than a single command.
	EnvironmentError struct {
		Message     string
		Host        string
		Suggestions []string
		Cause       error
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
	return e.Message
}

// Unwrap returns the cause chained behind the ErrSyntax sentinel.
func (e *SyntaxError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrSyntax
}

// Is reports whether target is the ErrSyntax sentinel.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s (command: %s)", e.Message, e.Command)
	}
	return e.Message
}

// Unwrap returns the cause chained behind the ErrExecution sentinel.
func (e *ExecutionError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrExecution
}

// Is reports whether target is the ErrExecution sentinel.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// Error implements the error interface.
func (e *EnvironmentError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("%s (host: %s)", e.Message, e.Host)
	}
	return e.Message
}

// Unwrap returns the cause chained behind the ErrEnvironment sentinel.
func (e *EnvironmentError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrEnvironment
}

// Is reports whether target is the ErrEnvironment sentinel.
func (e *EnvironmentError) Is(target error) bool { return target == ErrEnvironment }

// FormatForUser renders any error as the one-line message plus optional
// suggestion lines the CLI prints on the fatal path. Typed errors contribute
// their structured context; anything else falls back to err.Error().
func FormatForUser(err error, verbose bool) string {
	var b strings.Builder

	var synErr *SyntaxError
	var execErr *ExecutionError
	var envErr *EnvironmentError

	switch {
	case errors.As(err, &synErr):
		b.WriteString("Syntax error: " + synErr.Error())
		writeSuggestions(&b, synErr.Suggestions)
	case errors.As(err, &execErr):
		b.WriteString("Execution error: " + execErr.Message)
		if execErr.Command != "" {
			b.WriteString("\n  command: " + execErr.Command)
		}
		if verbose && execErr.Env.Len() > 0 {
			b.WriteString("\n  environment: " + strings.Join(execErr.Env.Slice(), " "))
		}
		writeSuggestions(&b, execErr.Suggestions)
	case errors.As(err, &envErr):
		b.WriteString("Environment error: " + envErr.Error())
		writeSuggestions(&b, envErr.Suggestions)
	default:
		b.WriteString(err.Error())
	}

	if verbose {
		if cause := errors.Unwrap(err); cause != nil && !isSentinel(cause) {
			b.WriteString("\n  caused by: " + cause.Error())
		}
	}

	return b.String()
}

func writeSuggestions(b *strings.Builder, suggestions []string) {
	for _, s := range suggestions {
		b.WriteString("\n  hint: " + s)
	}
}

func isSentinel(err error) bool {
	return err == ErrSyntax || err == ErrExecution || err == ErrEnvironment
}
