// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pfrunner/internal/alias"
	"pfrunner/internal/issue"
)

// listCmd prints every task with its description and alias annotations.
var listCmd = &cobra.Command{
	Use:          "list",
	Short:        "List all tasks defined in the Pfyfile",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadTaskFile()
		if err != nil {
			fmt.Fprintln(os.Stderr, "No Pfyfile found. Create a Pfyfile.pf to define tasks.")
			explainIssue(issue.PfyfileNotFoundId)
			return &ExitError{Code: 1, Err: err}
		}

		reverse := alias.Reverse(alias.Map(file))

		fmt.Println(TitleStyle.Render("Tasks") + SubtitleStyle.Render(" ("+file.FilePath+")"))
		width := 0
		for _, t := range file.Tasks {
			if len(t.Name) > width {
				width = len(t.Name)
			}
		}
		for _, t := range file.Tasks {
			line := "  " + TaskStyle.Render(fmt.Sprintf("%-*s", width, t.Name)) + "  " + t.Summary()
			if names := reverse[t.Name]; len(names) > 0 {
				line += SubtitleStyle.Render(" (aliases: " + strings.Join(names, ", ") + ")")
			}
			fmt.Println(line)
		}
		return nil
	},
}
