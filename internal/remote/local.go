// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"golang.org/x/term"

	"pfrunner/pkg/types"
)

// LocalConnection runs composite commands on this machine through a
// pseudo-terminal, so a host list naming localhost behaves like a remote
// session would.
type LocalConnection struct {
	host string
}

// NewLocal returns a connection for the given local host name.
func NewLocal(host string) *LocalConnection {
	if host == "" {
		host = "local"
	}
	return &LocalConnection{host: host}
}

// Host implements Connection.
func (c *LocalConnection) Host() string { return c.host }

// Close implements Connection.
func (c *LocalConnection) Close() error { return nil }

// Run implements Connection. With a terminal on stdin the command gets its
// own pty with size propagation; otherwise the process streams are inherited
// directly.
func (c *LocalConnection) Run(ctx context.Context, command string) (types.ExitCode, error) {
	cmd := exec.CommandContext(ctx, "bash", "-c", command)

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		return exitCodeOf(cmd.Run())
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 1, err
	}
	defer ptmx.Close()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				log.Debug("pty resize failed", "err", err)
			}
		}
	}()
	winch <- syscall.SIGWINCH

	oldState, err := term.MakeRaw(stdinFd)
	if err == nil {
		defer term.Restore(stdinFd, oldState)
	}

	go func() { _, _ = io.Copy(ptmx, os.Stdin) }()
	_, _ = io.Copy(os.Stdout, ptmx)

	return exitCodeOf(cmd.Wait())
}

func exitCodeOf(err error) (types.ExitCode, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return types.ExitCode(exitErr.ExitCode()), nil
	}
	return 1, err
}
