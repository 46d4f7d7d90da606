// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pfrunner/pkg/pfyfile"
)

// helpCmd replaces cobra's help command so `pf help <task>` shows the
// task's commands, env, and hosts; anything else falls back to the regular
// command help.
var helpCmd = &cobra.Command{
	Use:          "help [task]",
	Short:        "Show help for pf or details for one task",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return rootCmd.Help()
		}

		if file, err := loadTaskFile(); err == nil {
			if task := file.Task(args[0]); task != nil {
				printTaskHelp(task, file.FilePath)
				return nil
			}
		}

		target, _, err := rootCmd.Find(args)
		if err != nil || target == nil {
			fmt.Printf("Unknown help topic %q\n", args[0])
			return rootCmd.Usage()
		}
		return target.Help()
	},
}

func printTaskHelp(task *pfyfile.Task, filePath string) {
	fmt.Println(TitleStyle.Render(task.Name) + SubtitleStyle.Render(" ("+filePath+")"))
	if task.Description != "" {
		fmt.Println("  " + task.Description)
	}
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("  Commands:"))
	for i, c := range task.Commands {
		label := c.Line
		if c.Lang != "" {
			label = "[" + c.Lang + "] " + label
		}
		fmt.Printf("    %d. %s\n", i+1, label)
	}
	if task.Env.Len() > 0 {
		fmt.Println(SubtitleStyle.Render("  Environment:"))
		task.Env.Each(func(k, v string) {
			fmt.Printf("    %s=%s\n", k, v)
		})
	}
	if len(task.Hosts) > 0 {
		fmt.Println(SubtitleStyle.Render("  Hosts:"))
		for _, h := range task.Hosts {
			fmt.Println("    " + h)
		}
	}
}
