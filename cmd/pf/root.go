// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pf.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pfrunner/internal/alias"
	"pfrunner/internal/config"
	"pfrunner/internal/debugmode"
	"pfrunner/internal/issue"
	"pfrunner/pkg/pfyfile"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string
	// fileArg overrides Pfyfile discovery.
	fileArg string
	// hostsArg overrides the task's host list (comma-separated).
	hostsArg string
	// envArgs are KEY=VALUE overrides layered over the task env.
	envArgs []string
	// debugFlag enables debug output for this invocation.
	debugFlag bool
	// dryRun echoes commands without executing them.
	dryRun bool
	// parallelFlag runs multiple tasks through the worker pool.
	parallelFlag bool
	// sudoFlag wraps every command in a privilege-elevation prefix.
	sudoFlag bool
	// sudoUser selects the elevation user.
	sudoUser string

	// cfg is the loaded configuration, available to all commands.
	cfg = config.DefaultConfig()

	// rootCmd is the base command.
	rootCmd = &cobra.Command{
		Use:   "pf",
		Short: "A polyglot task runner",
		Long: TitleStyle.Render("pf") + SubtitleStyle.Render(" - A polyglot task runner") + `

pf executes named tasks declared in a Pfyfile.pf, locally or on remote
hosts over SSH, sequentially or in parallel. Command lines may carry
leading environment assignments, and per-command language hints run
inline snippets in 40+ languages.

` + SubtitleStyle.Render("Examples:") + `
  pf list                   List all available tasks
  pf run build              Run the 'build' task
  pf run deploy --hosts web1,web2
  pf help deploy            Show details for the 'deploy' task
  pf prune                  Clean up container resources`,
	}
)

// reservedNames are command names an alias can never shadow.
var reservedNames = map[string]bool{
	"list": true, "help": true, "run": true, "prune": true,
	"debug-on": true, "debug-off": true, "completion": true,
}

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <configdir>/pf/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&fileArg, "file", "f", "", "task file (default searches for Pfyfile.pf upward)")
	rootCmd.PersistentFlags().StringVar(&hostsArg, "hosts", "", "comma-separated host list overriding the task's hosts")
	rootCmd.PersistentFlags().StringArrayVarP(&envArgs, "env", "e", nil, "KEY=VALUE environment override (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "echo commands without executing them")
	rootCmd.PersistentFlags().BoolVar(&parallelFlag, "parallel", false, "run multiple tasks in parallel")
	rootCmd.PersistentFlags().BoolVar(&sudoFlag, "sudo", false, "run commands with privilege elevation")
	rootCmd.PersistentFlags().StringVar(&sudoUser, "sudo-user", "", "user to elevate to (implies --sudo)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(debugOnCmd)
	rootCmd.AddCommand(debugOffCmd)
	rootCmd.SetHelpCommand(helpCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute wires dynamic commands, rewrites a leading alias, and runs the
// CLI. Called by main.main().
func Execute() {
	registerDiscoveredTasks()
	rootCmd.SetArgs(rewriteAliasArgs(os.Args[1:]))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// rewriteAliasArgs maps `pf <alias> ...` onto `pf run <task> ...`. Alias
// loading is best-effort; on any failure the args pass through untouched.
func rewriteAliasArgs(args []string) []string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return args
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == args[0] || c.HasAlias(args[0]) {
			return args
		}
	}
	file, _, err := pfyfile.Load(earlyFileArg(args), "")
	if err != nil {
		log.Debug("alias resolution skipped", "err", err)
		return args
	}
	return alias.Rewrite(args, alias.Map(file), reservedNames)
}

// earlyFileArg extracts -f/--file before cobra parses anything, so alias
// and subcommand discovery honor it.
func earlyFileArg(args []string) string {
	for i, a := range args {
		switch {
		case a == "-f" || a == "--file":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--file="):
			return strings.TrimPrefix(a, "--file=")
		case strings.HasPrefix(a, "-f="):
			return strings.TrimPrefix(a, "-f=")
		}
	}
	return ""
}

// initRootConfig loads configuration and applies the effective log level.
func initRootConfig() {
	if debugmode.Active(debugFlag) {
		log.SetLevel(log.DebugLevel)
	}

	loaded, path, err := config.Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+issue.FormatForUser(err, verbose))
		return
	}
	cfg = loaded
	if path != "" {
		log.Debug("loaded configuration", "path", path)
	}
	if cfg.UI.Verbose {
		verbose = true
	}
}
