// SPDX-License-Identifier: MPL-2.0

// Package remote runs composite command strings on task hosts, over SSH or
// through a local pseudo-terminal.
package remote

import (
	"context"
	"strings"

	"pfrunner/pkg/types"
)

// localHostNames are host specs that short-circuit to in-process execution
// instead of an SSH dial.
var localHostNames = map[string]bool{
	"local":     true,
	"localhost": true,
	"127.0.0.1": true,
}

type (
	// Connection executes commands on one host. Implementations satisfy
	// shellcmd.RemoteRunner.
	Connection interface {
		// Host identifies the target for diagnostics.
		Host() string
		// Run executes command and returns its exit status. A non-zero
		// status is not an error; errors mean the command could not run.
		Run(ctx context.Context, command string) (types.ExitCode, error)
		// Close releases the underlying transport.
		Close() error
	}

	// DialOptions carries connection defaults from configuration. A
	// user or port embedded in the host spec wins over these.
	DialOptions struct {
		User         string
		Port         int
		IdentityFile string
	}
)

// Dial opens a connection to the host spec `[user@]host[:port]`. The names
// local, localhost and 127.0.0.1 (without an explicit user) yield a local
// connection with no transport.
func Dial(ctx context.Context, hostSpec string, opts DialOptions) (Connection, error) {
	spec := strings.TrimSpace(hostSpec)
	if !strings.Contains(spec, "@") && localHostNames[strings.ToLower(spec)] {
		return NewLocal(spec), nil
	}
	return DialSSH(ctx, spec, opts)
}
