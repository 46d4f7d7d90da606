// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PfyfileNotFoundId Id = iota + 1
	PfyfileParseErrorId
	TaskNotFoundId
	UnknownLanguageId
	PolyglotSourceNotFoundId
	RemoteConnectionFailedId
	ContainerEngineNotFoundId
	CommandSpawnFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	pfyfileNotFoundIssue = &Issue{
		id: PfyfileNotFoundId,
		mdMsg: `
# No Pfyfile found!

We searched for a Pfyfile but couldn't find one in the working directory or
any parent directory.

## Things you can try:
- Create a ` + "`Pfyfile.pf`" + ` in your project directory:
~~~
task hello: Say hello
    run echo hello
~~~

- Or point pf at an explicit file:
~~~
$ pf -f path/to/Pfyfile.pf list
~~~`,
	}

	pfyfileParseErrorIssue = &Issue{
		id: PfyfileParseErrorId,
		mdMsg: `
# Failed to parse Pfyfile!

Your Pfyfile contains a malformed statement.

## Common issues:
- A task body directive outside a ` + "`task <name>:`" + ` block
- A malformed ` + "`env KEY=VALUE`" + ` or ` + "`alias <name> = <task>`" + ` directive
- Unbalanced quotes inside a ` + "`run`" + ` line

## Things you can try:
- Check the line number in the error message above
- Run with --debug for the full parse trace`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you named is not defined in the loaded Pfyfile or any of its
included files.

## Things you can try:
- List all available tasks:
~~~
$ pf list
~~~
- Check for typos in the task name (lookup is case-sensitive)
- Verify the include directives resolve (missing includes only warn)`,
	}

	unknownLanguageIssue = &Issue{
		id: UnknownLanguageId,
		mdMsg: `
# Unknown language hint!

The language hint on a polyglot command does not resolve to any registered
language profile.

## Things you can try:
- The error message lists every supported key; pick one of those
- Common spellings are aliased (` + "`py`" + `, ` + "`js`" + `, ` + "`golang`" + `, ` + "`c++`" + `, ...)`,
	}

	polyglotSourceNotFoundIssue = &Issue{
		id: PolyglotSourceNotFoundId,
		mdMsg: `
# Polyglot source file not found!

A command referenced its source with ` + "`@path`" + ` or ` + "`file:path`" + `
but the file could not be resolved.

## Things you can try:
- Relative references resolve against the Pfyfile's directory
- Check that the file exists and is readable`,
	}

	remoteConnectionFailedIssue = &Issue{
		id: RemoteConnectionFailedId,
		mdMsg: `
# Remote connection failed!

pf could not reach or authenticate against a target host.

## Things you can try:
- Check network connectivity and that sshd is running on the host
- Verify ` + "`remote.user`" + `, ` + "`remote.port`" + `, and
  ` + "`remote.identity_file`" + ` in your config
- Try the same host with plain ssh to isolate the problem`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

` + "`pf prune`" + ` needs a container engine but neither podman nor docker
is available.

## Things you can try:
- Install Podman or Docker
- If containers are not in use there is nothing to prune`,
	}

	commandSpawnFailedIssue = &Issue{
		id: CommandSpawnFailedId,
		mdMsg: `
# Command failed to start!

The process for a task command could not be spawned at all.

## Common causes:
- Command not found in PATH
- Permission denied on the executable

## Things you can try:
- Run the echoed command manually in your shell
- Check file permissions and PATH settings`,
	}

	issues = map[Id]*Issue{
		pfyfileNotFoundIssue.Id():         pfyfileNotFoundIssue,
		pfyfileParseErrorIssue.Id():       pfyfileParseErrorIssue,
		taskNotFoundIssue.Id():            taskNotFoundIssue,
		unknownLanguageIssue.Id():         unknownLanguageIssue,
		polyglotSourceNotFoundIssue.Id():  polyglotSourceNotFoundIssue,
		remoteConnectionFailedIssue.Id():  remoteConnectionFailedIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		commandSpawnFailedIssue.Id():      commandSpawnFailedIssue,
	}
)

func Values() []*Issue {
	vals := maps.Values(issues)
	slices.SortFunc(vals, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return vals
}

func Get(id Id) *Issue {
	return issues[id]
}
