// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"pfrunner/internal/issue"
	"pfrunner/pkg/types"
)

// shellMetacharacters is the fixed set whose presence means a command needs
// shell features: pipes, redirection, background/sequencing, substitution,
// globbing, brace expansion, home expansion, subshells, and embedded
// newlines. Compound operators (&&, >>, 2>&1, here-docs) are covered by
// their constituent characters.
const shellMetacharacters = "|><&;`$*?[]{}~()\n"

type (
	// RemoteRunner is the remote-connection abstraction the executor
	// submits composite command strings to. Implemented by
	// internal/remote.Connection.
	RemoteRunner interface {
		// Host identifies the target for diagnostics.
		Host() string
		// Run executes the command on the remote side with a
		// pseudo-terminal and returns its exit status.
		Run(ctx context.Context, command string) (types.ExitCode, error)
	}

	// Options configures one command execution.
	Options struct {
		// TaskEnv supplies task-level environment variables; assignments
		// parsed from the command line itself override these.
		TaskEnv *types.EnvMap
		// Sudo wraps the command in a privilege-elevation prefix.
		Sudo bool
		// SudoUser selects the elevation user (empty means root).
		SudoUser string
		// Connection routes execution to a remote host when non-nil.
		Connection RemoteRunner
		// Prefix is prepended to the command echo line.
		Prefix string
		// DryRun echoes the fully-expanded command without spawning.
		DryRun bool
		// PreRendered marks cmdLine as a complete shell payload. It runs
		// opaquely under bash with no env-prefix extraction; its first line
		// stands in for the command on the echo line.
		PreRendered bool

		// Stdout, Stderr, and Stdin default to the process streams.
		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader
	}
)

// NeedsShellFeatures reports whether cmd contains any character from the
// fixed shell-metacharacter set.
func NeedsShellFeatures(cmd string) bool {
	return strings.ContainsAny(cmd, shellMetacharacters)
}

// Execute runs one raw command line: parses its environment prefix, echoes
// the fully-expanded command, then spawns locally or submits to the remote
// connection. Only the numeric exit code flows back; spawn and connection
// failures come back as *issue.ExecutionError.
func Execute(ctx context.Context, cmdLine string, opts Options) (types.ExitCode, error) {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	if opts.PreRendered {
		return executeRendered(ctx, cmdLine, opts, stdout, stderr)
	}

	envVars, command, err := Split(cmdLine)
	if err != nil {
		return 1, err
	}
	if command == "" {
		fmt.Fprintf(stderr, "%s[warn] Empty command after parsing environment variables\n", opts.Prefix)
		return 0, nil
	}

	display := displayEnv(opts.TaskEnv, envVars)
	displayCmd := command
	if display.Len() > 0 {
		pairs := make([]string, 0, display.Len())
		display.Each(func(k, v string) { pairs = append(pairs, k+"="+Quote(v)) })
		displayCmd = strings.Join(pairs, " ") + " " + command
	}
	if opts.Sudo {
		displayCmd = "(sudo) " + displayCmd
	}
	fmt.Fprintf(stderr, "%s$ %s\n", opts.Prefix, displayCmd)

	if opts.DryRun {
		return 0, nil
	}

	if opts.Connection != nil {
		return executeRemote(ctx, command, envVars, displayCmd, display, opts)
	}

	args, err := BuildSecureArgs(command, envVars, opts.TaskEnv, opts.Sudo, opts.SudoUser)
	if err != nil {
		return 1, err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), append(opts.TaskEnv.Slice(), envVars.Slice()...)...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = opts.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return types.ExitCode(exitErr.ExitCode()), nil
		}
		return 1, &issue.ExecutionError{
			Message:     fmt.Sprintf("failed to execute subprocess: %v", err),
			Command:     displayCmd,
			Env:         display,
			Suggestions: []string{"Check that the command exists and is executable"},
			Cause:       err,
		}
	}
	return 0, nil
}

// executeRendered runs an already-rendered payload. The payload is a shell
// script of its own (temp-dir setup, here-doc staging, cleanup), so it must
// reach bash verbatim; parsing an env prefix out of it would mangle its
// first line. Task env travels via the process environment, or as exports
// folded into the script when sudo or a connection is in play.
func executeRendered(ctx context.Context, payload string, opts Options, stdout, stderr io.Writer) (types.ExitCode, error) {
	head, _, _ := strings.Cut(payload, "\n")
	displayCmd := head
	if opts.Sudo {
		displayCmd = "(sudo) " + displayCmd
	}
	fmt.Fprintf(stderr, "%s$ %s\n", opts.Prefix, displayCmd)

	if opts.DryRun {
		return 0, nil
	}

	if opts.Connection != nil {
		full := BuildRemoteCommand(nil, payload, opts.TaskEnv, opts.Sudo, opts.SudoUser)
		code, err := opts.Connection.Run(ctx, full)
		if err != nil {
			return 1, &issue.ExecutionError{
				Message:     fmt.Sprintf("remote command execution failed: %v", err),
				Command:     head,
				Env:         displayEnv(opts.TaskEnv, nil),
				Suggestions: []string{"Check network connectivity and remote host accessibility"},
				Cause:       err,
			}
		}
		return code, nil
	}

	var args []string
	if opts.Sudo {
		args = []string{"sudo"}
		if opts.SudoUser != "" {
			args = append(args, "-u", opts.SudoUser)
		}
		// sudo strips the caller's environment, so exports fold in.
		args = append(args, "-H", "bash", "-c", exportPrefixed(nil, payload, opts.TaskEnv))
	} else {
		args = []string{"bash", "-c", payload}
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), opts.TaskEnv.Slice()...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = opts.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return types.ExitCode(exitErr.ExitCode()), nil
		}
		return 1, &issue.ExecutionError{
			Message:     fmt.Sprintf("failed to execute subprocess: %v", err),
			Command:     head,
			Env:         displayEnv(opts.TaskEnv, nil),
			Suggestions: []string{"Check that the command exists and is executable"},
			Cause:       err,
		}
	}
	return 0, nil
}

// executeRemote builds the composite export+command string and submits it to
// the connection; the executor never spawns a local process on this path.
func executeRemote(ctx context.Context, command string, envVars *types.EnvMap, displayCmd string, display *types.EnvMap, opts Options) (types.ExitCode, error) {
	full := BuildRemoteCommand(envVars, command, opts.TaskEnv, opts.Sudo, opts.SudoUser)
	code, err := opts.Connection.Run(ctx, full)
	if err != nil {
		return 1, &issue.ExecutionError{
			Message:     fmt.Sprintf("remote command execution failed: %v", err),
			Command:     displayCmd,
			Env:         display,
			Suggestions: []string{"Check network connectivity and remote host accessibility"},
			Cause:       err,
		}
	}
	return code, nil
}

// BuildSecureArgs builds the process argument vector for a command without
// ever enabling whole-line shell interpolation.
//
// Commands free of shell metacharacters become a plain tokenized argv with
// no shell intermediary. Commands that need shell features become a single
// argument to `bash -c`. Sudo invocations get a `sudo [-u user] -H` prefix;
// in the shell-features case the environment is folded into the -c string as
// exports (sudo strips the caller's environment), otherwise env travels via
// the process environment and tokenized args append directly.
func BuildSecureArgs(command string, envVars, taskEnv *types.EnvMap, sudo bool, sudoUser string) ([]string, error) {
	needsShell := NeedsShellFeatures(command)

	if sudo {
		sudoArgs := []string{"sudo"}
		if sudoUser != "" {
			sudoArgs = append(sudoArgs, "-u", sudoUser)
		}
		// -H forces a fresh home-directory context for the target user.
		sudoArgs = append(sudoArgs, "-H")

		if needsShell {
			return append(sudoArgs, "bash", "-c", exportPrefixed(envVars, command, taskEnv)), nil
		}
		cmdArgs, err := Tokenize(command)
		if err != nil {
			return nil, &issue.ExecutionError{
				Message:     fmt.Sprintf("failed to parse sudo command arguments: %v", err),
				Command:     command,
				Suggestions: []string{"Check for unclosed quotes or invalid escape sequences"},
				Cause:       err,
			}
		}
		return append(sudoArgs, cmdArgs...), nil
	}

	if needsShell {
		// Shell parsing is confined to this one argument.
		return []string{"bash", "-c", command}, nil
	}

	cmdArgs, err := Tokenize(command)
	if err != nil {
		// Deliberate robustness trade-off: a metachar-free command that
		// still fails tokenization falls back to an explicit shell
		// invocation instead of erroring. The log line keeps the
		// narrowed guarantee observable.
		log.Warn("insecure fallback to shell invocation", "command", command, "err", err)
		return []string{"bash", "-c", command}, nil
	}
	return cmdArgs, nil
}

// displayEnv merges task env under command-line env for the echo line.
func displayEnv(taskEnv, envVars *types.EnvMap) *types.EnvMap {
	merged := types.NewEnvMap()
	merged.Merge(taskEnv)
	merged.Merge(envVars)
	return merged
}

// exportPrefixed renders `export K=V; ...; command` with each value quoted.
func exportPrefixed(envVars *types.EnvMap, command string, taskEnv *types.EnvMap) string {
	merged := displayEnv(taskEnv, envVars)
	if merged.Len() == 0 {
		return command
	}
	exports := make([]string, 0, merged.Len())
	merged.Each(func(k, v string) {
		exports = append(exports, "export "+k+"="+Quote(v))
	})
	return strings.Join(exports, "; ") + "; " + command
}
