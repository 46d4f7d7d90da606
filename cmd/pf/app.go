// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"pfrunner/internal/app/execute"
	"pfrunner/internal/issue"
	"pfrunner/internal/remote"
	"pfrunner/pkg/pfyfile"
	"pfrunner/pkg/types"
)

// loadTaskFile loads the Pfyfile honoring the --file flag and the
// configured default name. Include problems surface as warnings.
func loadTaskFile() (*pfyfile.File, error) {
	file, warnings, err := pfyfile.Load(fileArg, cfg.DefaultFile)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn(w.Error())
	}
	return file, nil
}

// parseEnvOverrides turns repeated --env flags into an ordered map.
func parseEnvOverrides() (*types.EnvMap, error) {
	env := types.NewEnvMap()
	for _, pair := range envArgs {
		key, value, found := strings.Cut(pair, "=")
		if !found || !types.IsValidEnvVarName(key) {
			return nil, &issue.SyntaxError{
				Message:     fmt.Sprintf("invalid environment override %q", pair),
				Suggestions: []string{"Use the form KEY=VALUE with an identifier key"},
			}
		}
		env.Set(key, value)
	}
	return env, nil
}

// hostOverrides splits the --hosts flag into a clean host list.
func hostOverrides() []string {
	if hostsArg == "" {
		return nil
	}
	var hosts []string
	for _, h := range strings.Split(hostsArg, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func remoteOptions() remote.DialOptions {
	return remote.DialOptions{
		User:         cfg.Remote.User,
		Port:         cfg.Remote.Port,
		IdentityFile: cfg.Remote.IdentityFile,
	}
}

// runTasks executes the named tasks, in parallel when requested, and maps
// the combined exit code onto an ExitError.
func runTasks(ctx context.Context, taskNames, trailingArgs []string) error {
	file, err := loadTaskFile()
	if err != nil {
		return err
	}
	env, err := parseEnvOverrides()
	if err != nil {
		return err
	}

	reqs := make([]execute.Request, len(taskNames))
	for i, name := range taskNames {
		reqs[i] = execute.Request{
			TaskName:     name,
			File:         file,
			Hosts:        hostOverrides(),
			EnvOverrides: env,
			Args:         trailingArgs,
			Sudo:         sudoFlag || sudoUser != "",
			SudoUser:     sudoUser,
			DryRun:       dryRun,
			Remote:       remoteOptions(),
		}
	}

	var (
		outcomes []execute.Outcome
		combined types.ExitCode
	)
	if parallelFlag && len(reqs) > 1 {
		outcomes, combined = execute.RunParallel(ctx, reqs, cfg.Parallel.Workers)
	} else {
		for _, req := range reqs {
			outcome := execute.Run(ctx, req)
			outcomes = append(outcomes, outcome)
			combined = combined.Combine(outcome.Code)
		}
	}

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+issue.FormatForUser(outcome.Err, verbose || debugFlag))
		}
	}
	if !combined.IsSuccess() {
		return &ExitError{Code: combined}
	}
	return nil
}
