// SPDX-License-Identifier: MPL-2.0

// Package execute orchestrates task runs: env layering, language payload
// rendering, host fan-out, and bounded parallel batches.
package execute

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"pfrunner/internal/issue"
	"pfrunner/internal/polyglot"
	"pfrunner/internal/remote"
	"pfrunner/internal/shellcmd"
	"pfrunner/pkg/pfyfile"
	"pfrunner/pkg/types"
)

// DefaultWorkers bounds a parallel batch when no explicit bound is given.
const DefaultWorkers = 4

type (
	// Request describes one task execution. Immutable after dispatch.
	Request struct {
		// TaskName selects the task inside File.
		TaskName string
		// File is the loaded task file.
		File *pfyfile.File
		// Hosts overrides the task's own host list when non-empty.
		Hosts []string
		// EnvOverrides layer on top of the task's env block.
		EnvOverrides *types.EnvMap
		// Args are trailing CLI arguments. A plain final command gets them
		// appended (quoted); a language-hinted final command receives them
		// as interpreter arguments.
		Args []string
		// Sudo wraps every command in a privilege-elevation prefix.
		Sudo bool
		// SudoUser selects the elevation user (empty means root).
		SudoUser string
		// DryRun echoes expanded commands without spawning anything.
		DryRun bool
		// Remote supplies SSH defaults for host dialing.
		Remote remote.DialOptions

		// Stdout and Stderr default to the process streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Outcome is the result of one task execution.
	Outcome struct {
		TaskName string
		Code     types.ExitCode
		Err      error
	}
)

// dialFunc is swapped in tests to avoid real connections.
var dialFunc = remote.Dial

// Run executes one task: commands in declaration order, on each of its
// hosts in turn (or locally when it has none). A failing command stops the
// remaining commands for that host; later hosts still run, and their exit
// codes combine so any failure surfaces.
func Run(ctx context.Context, req Request) Outcome {
	task := req.File.Task(req.TaskName)
	if task == nil {
		return Outcome{TaskName: req.TaskName, Code: 1, Err: &issue.ExecutionError{
			Message:     fmt.Sprintf("task %q not found", req.TaskName),
			Suggestions: []string{"Available tasks: " + strings.Join(req.File.TaskNames(), ", ")},
		}}
	}

	taskEnv := types.NewEnvMap()
	taskEnv.Merge(task.Env)
	taskEnv.Merge(req.EnvOverrides)

	hosts := req.Hosts
	if len(hosts) == 0 {
		hosts = task.Hosts
	}

	baseDir := ""
	if req.File.FilePath != "" {
		baseDir = filepath.Dir(req.File.FilePath)
	}

	if len(hosts) == 0 {
		code, err := runCommands(ctx, task, taskEnv, baseDir, nil, "", req)
		return Outcome{TaskName: req.TaskName, Code: code, Err: err}
	}

	var (
		combined types.ExitCode
		firstErr error
	)
	for _, host := range hosts {
		conn, err := dialFunc(ctx, host, req.Remote)
		if err != nil {
			log.Error("connection failed", "host", host, "err", err)
			combined = combined.Combine(1)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		code, err := runCommands(ctx, task, taskEnv, baseDir, conn, "["+host+"] ", req)
		conn.Close()
		combined = combined.Combine(code)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return Outcome{TaskName: req.TaskName, Code: combined, Err: firstErr}
}

// RunParallel executes the requests through a bounded worker pool.
// Completion order is unspecified; outcomes come back in request order and
// the combined code is non-zero iff any task's code was.
func RunParallel(ctx context.Context, reqs []Request, workers int) ([]Outcome, types.ExitCode) {
	if len(reqs) == 0 {
		return nil, 0
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	batchID := uuid.NewString()
	log.Debug("starting parallel batch", "batch", batchID, "tasks", len(reqs), "workers", workers)

	outcomes := make([]Outcome, len(reqs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = Run(ctx, reqs[i])
				log.Debug("task finished", "batch", batchID, "task", reqs[i].TaskName, "code", outcomes[i].Code)
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var combined types.ExitCode
	for _, o := range outcomes {
		combined = combined.Combine(o.Code)
	}
	return outcomes, combined
}

// runCommands runs the task's command list sequentially, stopping at the
// first non-zero exit.
func runCommands(ctx context.Context, task *pfyfile.Task, taskEnv *types.EnvMap, baseDir string, conn remote.Connection, prefix string, req Request) (types.ExitCode, error) {
	var connection shellcmd.RemoteRunner
	if conn != nil {
		connection = conn
	}

	for i, command := range task.Commands {
		line := command.Line
		final := i == len(task.Commands)-1
		preRendered := false
		if command.Lang != "" {
			var extra []string
			if final {
				extra = req.Args
			}
			rendered, langKey, err := polyglot.Render(command.Lang, line, baseDir, extra...)
			if err != nil {
				return 1, err
			}
			log.Debug("rendered language payload", "task", task.Name, "lang", langKey)
			line = rendered
			preRendered = true
		} else if final && len(req.Args) > 0 {
			line = line + " " + shellcmd.JoinQuoted(req.Args)
		}

		code, err := shellcmd.Execute(ctx, line, shellcmd.Options{
			TaskEnv:     taskEnv,
			Sudo:        req.Sudo,
			SudoUser:    req.SudoUser,
			Connection:  connection,
			Prefix:      prefix,
			DryRun:      req.DryRun,
			PreRendered: preRendered,
			Stdout:      req.Stdout,
			Stderr:      req.Stderr,
		})
		if err != nil {
			return 1, err
		}
		if !code.IsSuccess() {
			return code, nil
		}
	}
	return 0, nil
}
