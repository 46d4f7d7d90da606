// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"errors"
	"reflect"
	"testing"

	"pfrunner/internal/issue"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantEnv []string
		wantCmd string
	}{
		{
			name:    "single env prefix",
			in:      "PORT=8080 node server.js",
			wantEnv: []string{"PORT=8080"},
			wantCmd: "node server.js",
		},
		{
			name:    "multiple env prefix",
			in:      "ENV_VAR=value ENV2=value2 bash -lc script.sh",
			wantEnv: []string{"ENV_VAR=value", "ENV2=value2"},
			wantCmd: "bash -lc script.sh",
		},
		{
			name:    "no env prefix",
			in:      "echo hello",
			wantEnv: nil,
			wantCmd: "echo hello",
		},
		{
			name:    "dash token is not an assignment",
			in:      "--flag=x echo hi",
			wantEnv: nil,
			wantCmd: "--flag=x echo hi",
		},
		{
			name:    "invalid identifier ends the scan",
			in:      "1BAD=x echo hi",
			wantEnv: nil,
			wantCmd: "1BAD=x echo hi",
		},
		{
			name:    "assignment after command is an argument",
			in:      "A=1 make B=2",
			wantEnv: []string{"A=1"},
			wantCmd: "make B=2",
		},
		{
			name:    "quoted value",
			in:      `MSG='hello world' echo done`,
			wantEnv: []string{"MSG=hello world"},
			wantCmd: "echo done",
		},
		{
			name:    "only assignments",
			in:      "A=1 B=2",
			wantEnv: []string{"A=1", "B=2"},
			wantCmd: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, cmd, err := Split(tt.in)
			if err != nil {
				t.Fatalf("Split(%q) error: %v", tt.in, err)
			}
			var gotEnv []string
			if env.Len() > 0 {
				gotEnv = env.Slice()
			}
			if !reflect.DeepEqual(gotEnv, tt.wantEnv) {
				t.Errorf("Split(%q) env = %v, want %v", tt.in, gotEnv, tt.wantEnv)
			}
			if cmd != tt.wantCmd {
				t.Errorf("Split(%q) cmd = %q, want %q", tt.in, cmd, tt.wantCmd)
			}
		})
	}
}

func TestSplitUnbalancedQuote(t *testing.T) {
	t.Parallel()

	_, _, err := Split(`echo 'unclosed`)
	if err == nil {
		t.Fatal("Split accepted an unbalanced quote")
	}
	if !errors.Is(err, issue.ErrSyntax) {
		t.Errorf("error = %T, want SyntaxError sentinel", err)
	}
}
