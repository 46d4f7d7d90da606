// SPDX-License-Identifier: EPL-2.0

// Package container abstracts the container runtimes (Docker/Podman) that
// task workloads leave resources behind in, for cleanup.
package container

import (
	"context"
	"io"
	"os/exec"
)

type (
	// Engine is one container runtime CLI.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks if the engine is usable on the system.
		Available() bool
		// Prune removes stopped containers, dangling images, and unused
		// networks.
		Prune(ctx context.Context, opts PruneOptions) error
	}

	// PruneOptions controls the cleanup scope.
	PruneOptions struct {
		// Volumes also removes unused volumes.
		Volumes bool
		// Stdout and Stderr receive the engine's own output.
		Stdout io.Writer
		Stderr io.Writer
	}

	// cliEngine implements the shared CLI plumbing for concrete engines.
	cliEngine struct {
		name       string
		binaryPath string
	}
)

func newCLIEngine(name string) cliEngine {
	path, _ := exec.LookPath(name)
	return cliEngine{name: name, binaryPath: path}
}

func (e cliEngine) Name() string { return e.name }

func (e cliEngine) Available() bool {
	if e.binaryPath == "" {
		return false
	}
	return e.command(context.Background(), "version").Run() == nil
}

func (e cliEngine) Prune(ctx context.Context, opts PruneOptions) error {
	args := []string{"system", "prune", "-f"}
	if opts.Volumes {
		args = append(args, "--volumes")
	}
	cmd := e.command(ctx, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	return cmd.Run()
}

func (e cliEngine) command(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, e.binaryPath, args...)
}

// Detect returns the first available engine, preferring Docker, or nil when
// no runtime is installed.
func Detect() Engine {
	for _, engine := range []Engine{NewDockerEngine(), NewPodmanEngine()} {
		if engine.Available() {
			return engine
		}
	}
	return nil
}
