// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

// runCmd executes one or more named tasks. Arguments after `--` pass
// through to the task's final command.
var runCmd = &cobra.Command{
	Use:   "run <task> [task...] [-- args...]",
	Short: "Run one or more tasks from the Pfyfile",
	Long: `Run the named tasks in declaration order, or concurrently with
--parallel. Task hosts can be overridden with --hosts, environment
variables layered with --env, and everything previewed with --dry-run.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		var trailing []string
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			names = args[:dash]
			trailing = args[dash:]
		}
		return runTasks(cmd.Context(), names, trailing)
	},
}
