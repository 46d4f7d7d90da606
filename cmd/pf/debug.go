// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pfrunner/internal/debugmode"
)

// debugOnCmd persists the debug marker so every later invocation runs with
// debug output.
var debugOnCmd = &cobra.Command{
	Use:          "debug-on",
	Short:        "Enable persistent debug mode",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := debugmode.Enable(Version); err != nil {
			return fmt.Errorf("failed to enable debug mode: %w", err)
		}
		fmt.Println("Debug mode enabled. Set PF_DEBUG=1 in your environment or run with --debug.")
		return nil
	},
}

// debugOffCmd removes the marker.
var debugOffCmd = &cobra.Command{
	Use:          "debug-off",
	Short:        "Disable persistent debug mode",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := debugmode.Disable(); err != nil {
			return fmt.Errorf("failed to disable debug mode: %w", err)
		}
		fmt.Println("Debug mode disabled.")
		return nil
	},
}
