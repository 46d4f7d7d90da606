// SPDX-License-Identifier: MPL-2.0

// Package discovery finds extra task names in included files so they can be
// offered as first-class subcommands. Discovery is best-effort: a broken or
// missing include warns and is skipped, never failing the tool.
package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"pfrunner/pkg/pfyfile"
)

// Registry maps each include path (as written in the root file) to the
// task names it contributes, in declaration order.
type Registry map[string][]string

// TaskNames flattens the registry into one deduplicated name list.
func (r Registry) TaskNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, tasks := range r {
		for _, name := range tasks {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Discover loads the root task file and parses each of its includes
// independently. A missing root file yields an empty registry without a
// warning; include problems warn and skip.
func Discover(fileArg string) Registry {
	reg := Registry{}

	path, err := pfyfile.Find(fileArg, "")
	if err != nil {
		return reg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return reg
	}

	rootDir := filepath.Dir(path)
	for _, inc := range extractIncludes(string(data)) {
		incPath, err := pfyfile.ResolveInclude(inc, rootDir)
		if err != nil {
			log.Warn("could not resolve include file", "include", inc, "err", err)
			continue
		}
		incData, err := os.ReadFile(incPath)
		if err != nil {
			log.Warn("include file not found", "include", inc)
			continue
		}
		incFile, err := pfyfile.ParseText(string(incData))
		if err != nil {
			log.Warn("could not process include file", "include", inc, "err", err)
			continue
		}
		reg[inc] = incFile.TaskNames()
	}
	return reg
}

// extractIncludes pulls include paths out of the raw source, quotes
// stripped. Matching stays line-based so discovery works on files the full
// parser would reject.
func extractIncludes(src string) []string {
	var includes []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "include ") {
			includes = append(includes, pfyfile.StripQuotes(strings.TrimSpace(line[len("include "):])))
		}
	}
	return includes
}
