// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "plain words", in: "echo hello world", want: []string{"echo", "hello", "world"}},
		{name: "single quotes literal", in: `echo 'hello world'`, want: []string{"echo", "hello world"}},
		{name: "double quotes", in: `echo "hello world"`, want: []string{"echo", "hello world"}},
		{name: "escaped space", in: `echo hello\ world`, want: []string{"echo", "hello world"}},
		{name: "escaped quote in double quotes", in: `echo "say \"hi\""`, want: []string{"echo", `say "hi"`}},
		{name: "dollar literal in single quotes", in: `echo '$HOME'`, want: []string{"echo", "$HOME"}},
		{name: "empty quoted token survives", in: `cmd '' after`, want: []string{"cmd", "", "after"}},
		{name: "operators stay ordinary tokens", in: "echo hi && echo bye", want: []string{"echo", "hi", "&&", "echo", "bye"}},
		{name: "tabs separate", in: "a\tb", want: []string{"a", "b"}},
		{name: "empty input", in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Tokenize(tt.in)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`echo 'unclosed`,
		`echo "unclosed`,
		`trailing\`,
	}
	for _, in := range inputs {
		if _, err := Tokenize(in); !errors.Is(err, ErrUnbalancedQuote) {
			t.Errorf("Tokenize(%q) error = %v, want ErrUnbalancedQuote", in, err)
		}
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"has space", "'has space'"},
		{"", "''"},
		// Tokens of safe characters stay bare even when they collide with
		// shell reserved words or look like assignments.
		{"done", "done"},
		{"B=2", "B=2"},
		{"--flag=x", "--flag=x"},
		{"1BAD=x", "1BAD=x"},
		{"/usr/local/bin:/opt/bin", "/usr/local/bin:/opt/bin"},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Values with shell-active characters must round-trip through one
	// layer of shell evaluation; exact quoting style is the library's call.
	dangerous := "a;b|c$(d)"
	q := Quote(dangerous)
	if q == dangerous {
		t.Errorf("Quote(%q) left shell metacharacters unquoted", dangerous)
	}
}

func TestJoinQuoted(t *testing.T) {
	t.Parallel()

	got := JoinQuoted([]string{"echo", "two words"})
	want := "echo 'two words'"
	if got != want {
		t.Errorf("JoinQuoted = %q, want %q", got, want)
	}
}
