// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pfrunner/internal/container"
	"pfrunner/internal/issue"
)

var pruneVolumes bool

// pruneCmd cleans up container resources left behind by task workloads.
var pruneCmd = &cobra.Command{
	Use:          "prune",
	Short:        "Clean up containers and resources",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := container.Detect()
		if engine == nil {
			explainIssue(issue.ContainerEngineNotFoundId)
			return &issue.EnvironmentError{
				Message:     "no container engine available",
				Suggestions: []string{"Install docker or podman to use prune"},
			}
		}

		fmt.Println(SubtitleStyle.Render("Pruning with " + engine.Name() + "..."))
		if err := engine.Prune(cmd.Context(), container.PruneOptions{
			Volumes: pruneVolumes,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		}); err != nil {
			return &issue.ExecutionError{
				Message:     fmt.Sprintf("%s prune failed: %v", engine.Name(), err),
				Suggestions: []string{"Check that the " + engine.Name() + " daemon is running"},
				Cause:       err,
			}
		}
		fmt.Println(SuccessStyle.Render("Prune complete."))
		return nil
	},
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneVolumes, "volumes", false, "also remove unused volumes")
}
