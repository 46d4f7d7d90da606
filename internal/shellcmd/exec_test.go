// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"pfrunner/pkg/types"
)

func TestNeedsShellFeatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  string
		want bool
	}{
		{"echo hello", false},
		{"node server.js", false},
		{"echo hi && echo bye", true},
		{"cat a | grep b", true},
		{"echo hi > out.txt", true},
		{"ls *.go", true},
		{"echo $HOME", true},
		{"sleep 1 &", true},
		{"cd ~", true},
		{"echo {a,b}", true},
		{"(subshell)", true},
		{"line1\nline2", true},
		{"echo a; echo b", true},
		{"echo `date`", true},
		{"ls file?", true},
		{"ls [ab]", true},
		{"cmd < input", true},
	}

	for _, tt := range tests {
		if got := NeedsShellFeatures(tt.cmd); got != tt.want {
			t.Errorf("NeedsShellFeatures(%q) = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestBuildSecureArgs(t *testing.T) {
	t.Parallel()

	env := types.NewEnvMap()
	env.Set("PORT", "8080")

	tests := []struct {
		name     string
		command  string
		envVars  *types.EnvMap
		sudo     bool
		sudoUser string
		want     []string
	}{
		{
			name:    "plain command tokenizes with no shell",
			command: "node server.js",
			want:    []string{"node", "server.js"},
		},
		{
			name:    "shell features confine to one bash -c argument",
			command: "echo hi && echo bye",
			want:    []string{"bash", "-c", "echo hi && echo bye"},
		},
		{
			name:    "sudo plain command",
			command: "systemctl restart nginx",
			sudo:    true,
			want:    []string{"sudo", "-H", "systemctl", "restart", "nginx"},
		},
		{
			name:     "sudo with target user",
			command:  "whoami",
			sudo:     true,
			sudoUser: "deploy",
			want:     []string{"sudo", "-u", "deploy", "-H", "whoami"},
		},
		{
			name:    "sudo shell command folds exports",
			command: "echo $PORT && true",
			envVars: env,
			sudo:    true,
			want:    []string{"sudo", "-H", "bash", "-c", "export PORT=8080; echo $PORT && true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildSecureArgs(tt.command, tt.envVars, nil, tt.sudo, tt.sudoUser)
			if err != nil {
				t.Fatalf("BuildSecureArgs error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildSecureArgs(%q) = %#v, want %#v", tt.command, got, tt.want)
			}
		})
	}
}

func TestBuildSecureArgsFallsBackToShellOnTokenizeFailure(t *testing.T) {
	t.Parallel()

	// Metachar-free but untokenizable: the unbalanced quote contains no
	// character from the metacharacter set.
	cmd := `echo 'unclosed`
	got, err := BuildSecureArgs(cmd, nil, nil, false, "")
	if err != nil {
		t.Fatalf("fallback path returned error: %v", err)
	}
	want := []string{"bash", "-c", cmd}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildSecureArgs(%q) = %#v, want shell fallback %#v", cmd, got, want)
	}
}

func TestBuildSecureArgsSudoTokenizeFailureErrors(t *testing.T) {
	t.Parallel()

	if _, err := BuildSecureArgs(`echo 'unclosed`, nil, nil, true, ""); err == nil {
		t.Fatal("sudo path accepted an untokenizable command")
	}
}

func TestBuildRemoteCommand(t *testing.T) {
	t.Parallel()

	env := types.NewEnvMap()
	env.Set("A", "1")
	taskEnv := types.NewEnvMap()
	taskEnv.Set("B", "two words")

	composite := "export B='two words'; export A=1; deploy.sh"
	tests := []struct {
		name     string
		sudo     bool
		sudoUser string
		want     string
	}{
		{
			name: "plain composite",
			want: composite,
		},
		{
			name: "sudo wraps the full composite",
			sudo: true,
			want: "sudo bash -lc " + Quote(composite),
		},
		{
			name:     "sudo with user",
			sudo:     true,
			sudoUser: "app",
			want:     "sudo -u app -H bash -lc " + Quote(composite),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := BuildRemoteCommand(env, "deploy.sh", taskEnv, tt.sudo, tt.sudoUser)
			if got != tt.want {
				t.Errorf("BuildRemoteCommand = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteDryRunEchoesWithoutSpawning(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	taskEnv := types.NewEnvMap()
	taskEnv.Set("PORT", "8080")

	code, err := Execute(context.Background(), "definitely-not-a-binary --flag", Options{
		TaskEnv: taskEnv,
		DryRun:  true,
		Stderr:  &stderr,
		Prefix:  "[web1] ",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !code.IsSuccess() {
		t.Errorf("dry run exit code = %d, want 0", code)
	}
	echo := stderr.String()
	if !strings.Contains(echo, "[web1] $ PORT=8080 definitely-not-a-binary --flag") {
		t.Errorf("dry run echo missing expanded command: %q", echo)
	}
}

func TestExecuteEmptyCommandWarnsAndSucceeds(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	code, err := Execute(context.Background(), "A=1 B=2", Options{Stderr: &stderr})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !code.IsSuccess() {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "Empty command after parsing environment variables") {
		t.Errorf("missing warning, got %q", stderr.String())
	}
}

func TestExecuteLocalExitCodes(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	code, err := Execute(context.Background(), "true", Options{Stderr: &stderr})
	if err != nil {
		t.Fatalf("Execute(true) error: %v", err)
	}
	if !code.IsSuccess() {
		t.Errorf("Execute(true) code = %d", code)
	}

	code, err = Execute(context.Background(), "false", Options{Stderr: &stderr})
	if err != nil {
		t.Fatalf("Execute(false) error: %v", err)
	}
	if code != 1 {
		t.Errorf("Execute(false) code = %d, want 1", code)
	}
}

func TestExecutePreRenderedRunsPayloadOpaquely(t *testing.T) {
	t.Parallel()

	// A rendered payload's first line looks like an env assignment; the
	// opaque path must not strip it.
	payload := "tmpdir=$(mktemp -d)\necho payload-ok\nrm -rf \"$tmpdir\"\n"
	var stdout, stderr bytes.Buffer

	code, err := Execute(context.Background(), payload, Options{
		PreRendered: true,
		Stdout:      &stdout,
		Stderr:      &stderr,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !code.IsSuccess() {
		t.Errorf("exit code = %d, want 0", code)
	}
	if got := stdout.String(); got != "payload-ok\n" {
		t.Errorf("stdout = %q, want payload output", got)
	}
	// Only the payload head appears on the echo line.
	if echo := stderr.String(); echo != "$ tmpdir=$(mktemp -d)\n" {
		t.Errorf("echo = %q, want the payload's first line", echo)
	}
}

func TestExecutePreRenderedExitCode(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	code, err := Execute(context.Background(), "tmpdir=$(mktemp -d)\nrm -rf \"$tmpdir\"\nexit 9\n", Options{
		PreRendered: true,
		Stderr:      &stderr,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if code != 9 {
		t.Errorf("exit code = %d, want 9", code)
	}
}

func TestExecutePreRenderedDryRun(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code, err := Execute(context.Background(), "tmpdir=$(mktemp -d)\necho never\n", Options{
		PreRendered: true,
		DryRun:      true,
		Stdout:      &stdout,
		Stderr:      &stderr,
	})
	if err != nil || !code.IsSuccess() {
		t.Fatalf("dry run = %d, %v", code, err)
	}
	if stdout.Len() != 0 {
		t.Errorf("dry run produced output: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "$ tmpdir=$(mktemp -d)") {
		t.Errorf("dry run echo missing payload head: %q", stderr.String())
	}
}

type fakeRunner struct {
	host     string
	commands []string
	code     types.ExitCode
}

func (f *fakeRunner) Host() string { return f.host }

func (f *fakeRunner) Run(ctx context.Context, command string) (types.ExitCode, error) {
	f.commands = append(f.commands, command)
	return f.code, nil
}

func TestExecuteRemoteSubmitsComposite(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{host: "web1", code: 0}
	var stderr bytes.Buffer
	taskEnv := types.NewEnvMap()
	taskEnv.Set("STAGE", "prod")

	code, err := Execute(context.Background(), "deploy.sh", Options{
		TaskEnv:    taskEnv,
		Connection: runner,
		Stderr:     &stderr,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !code.IsSuccess() {
		t.Errorf("exit code = %d", code)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("remote received %d commands, want 1", len(runner.commands))
	}
	if runner.commands[0] != "export STAGE=prod; deploy.sh" {
		t.Errorf("composite = %q", runner.commands[0])
	}
}

func TestExecutePreRenderedRemoteSubmitsWholePayload(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{host: "web1"}
	var stderr bytes.Buffer
	taskEnv := types.NewEnvMap()
	taskEnv.Set("STAGE", "prod")
	payload := "tmpdir=$(mktemp -d)\necho hi\nrm -rf \"$tmpdir\"\n"

	if _, err := Execute(context.Background(), payload, Options{
		TaskEnv:     taskEnv,
		Connection:  runner,
		PreRendered: true,
		Stderr:      &stderr,
	}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("remote received %d commands, want 1", len(runner.commands))
	}
	if runner.commands[0] != "export STAGE=prod; "+payload {
		t.Errorf("remote payload = %q", runner.commands[0])
	}
}
