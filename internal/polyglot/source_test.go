// SPDX-License-Identifier: MPL-2.0

package polyglot

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pfrunner/internal/issue"
)

func TestExtractSourceInline(t *testing.T) {
	t.Parallel()

	code, args, path, err := ExtractSource(`print("hello")`, "")
	if err != nil {
		t.Fatalf("ExtractSource error: %v", err)
	}
	if code != `print("hello")` || args != nil || path != "" {
		t.Errorf("inline extraction = (%q, %v, %q)", code, args, path)
	}
}

func TestExtractSourceFileReference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "script.py"), []byte("print(1)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		cmd      string
		wantArgs []string
	}{
		{name: "at prefix", cmd: "@script.py", wantArgs: nil},
		{name: "file prefix", cmd: "file:script.py", wantArgs: nil},
		{name: "trailing args", cmd: "@script.py one two", wantArgs: []string{"one", "two"}},
		{name: "double dash separator dropped", cmd: "@script.py -- --flag", wantArgs: []string{"--flag"}},
		{name: "separator with nothing after", cmd: "@script.py --", wantArgs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, args, path, err := ExtractSource(tt.cmd, dir)
			if err != nil {
				t.Fatalf("ExtractSource(%q) error: %v", tt.cmd, err)
			}
			if code != "print(1)\n" {
				t.Errorf("code = %q", code)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
			if path != filepath.Join(dir, "script.py") {
				t.Errorf("path = %q", path)
			}
		})
	}
}

func TestExtractSourceAbsolutePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	abs := filepath.Join(dir, "abs.rb")
	if err := os.WriteFile(abs, []byte("puts 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, path, err := ExtractSource("@"+abs, t.TempDir())
	if err != nil {
		t.Fatalf("ExtractSource error: %v", err)
	}
	if code != "puts 1\n" || path != abs {
		t.Errorf("absolute reference = (%q, %q)", code, path)
	}
}

func TestExtractSourceMissingBaseDir(t *testing.T) {
	t.Parallel()

	_, _, _, err := ExtractSource("@script.py", "")
	if !errors.Is(err, issue.ErrSyntax) {
		t.Errorf("error = %v, want SyntaxError sentinel", err)
	}
}

func TestExtractSourceMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, _, err := ExtractSource("@nope.py", dir)
	if !errors.Is(err, issue.ErrSyntax) {
		t.Fatalf("error = %v, want SyntaxError sentinel", err)
	}
	var synErr *issue.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error is not *issue.SyntaxError: %T", err)
	}
	if !strings.Contains(synErr.FilePath, "nope.py") {
		t.Errorf("FilePath = %q, want resolved candidate path", synErr.FilePath)
	}
}

func TestExtractSourceUntokenizableIsInline(t *testing.T) {
	t.Parallel()

	src := `it's got an apostrophe`
	code, args, path, err := ExtractSource(src, "")
	if err != nil {
		t.Fatalf("ExtractSource error: %v", err)
	}
	if code != src || args != nil || path != "" {
		t.Errorf("untokenizable snippet not treated as inline: (%q, %v, %q)", code, args, path)
	}
}
