// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"pfrunner/internal/discovery"
)

// registerDiscoveredTasks promotes task names found in included files to
// first-class subcommands, so `pf deploy` works without the `run` prefix.
// Discovery is best-effort and collisions with built-in commands are
// skipped silently.
func registerDiscoveredTasks() {
	registry := discovery.Discover(earlyFileArg(os.Args[1:]))
	for _, name := range registry.TaskNames() {
		if reservedNames[name] || hasCommand(name) {
			continue
		}
		taskName := name
		rootCmd.AddCommand(&cobra.Command{
			Use:          taskName + " [-- args...]",
			Short:        "Run the '" + taskName + "' task",
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				var trailing []string
				if dash := cmd.ArgsLenAtDash(); dash >= 0 {
					trailing = args[dash:]
				}
				return runTasks(cmd.Context(), []string{taskName}, trailing)
			},
		})
	}
}

func hasCommand(name string) bool {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
