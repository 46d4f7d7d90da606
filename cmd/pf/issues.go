// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pfrunner/internal/issue"
)

// explainIssue prints the rendered troubleshooting page for one known
// failure mode. Rendering problems are swallowed; the page is a bonus on
// top of the one-line error.
func explainIssue(id issue.Id) {
	page := issue.Get(id)
	if page == nil {
		return
	}
	out, err := page.Render("auto")
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, out)
}

// issuesCmd dumps every troubleshooting page. Hidden: linked from error
// output, not from the main help.
var issuesCmd = &cobra.Command{
	Use:          "issues",
	Short:        "Show troubleshooting pages for known failure modes",
	Hidden:       true,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, page := range issue.Values() {
			out, err := page.Render("auto")
			if err != nil {
				return err
			}
			fmt.Print(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issuesCmd)
}
