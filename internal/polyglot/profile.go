// SPDX-License-Identifier: MPL-2.0

package polyglot

import (
	"strings"

	"pfrunner/internal/shellcmd"
)

// heredocDelimiter fences the staged snippet so its content can never be
// interpreted as shell syntax.
const heredocDelimiter = "__PFY_LANG__"

// defaultBasename is the staged source file name (before the extension).
const defaultBasename = "pf_poly"

// Profile renders a self-contained shell payload for one language: the
// payload creates its own temporary directory, stages the snippet through a
// fenced here-document, runs the toolchain, and removes the directory on
// every exit path.
type Profile interface {
	Render(source string, args []string) string
}

type (
	// ScriptProfile runs interpreted languages: stage the snippet, invoke
	// the interpreter directly on the staged file, forward quoted trailing
	// arguments, propagate the exit code.
	ScriptProfile struct {
		// Interpreter is the interpreter command and its fixed arguments.
		Interpreter []string
		// Ext is the canonical source extension, dot included.
		Ext string
		// Basename overrides the staged file name (defaults to pf_poly).
		Basename string
	}

	// CompileProfile runs compiled languages: compile with a templated
	// command, and only run the produced binary if compilation succeeded.
	//
	// CompilerCmd and RunCmd may use the placeholders {src}, {bin}, {dir},
	// {classes}, {jar}; RunCmd additionally understands {args} (expanded
	// with a leading space when arguments are present).
	CompileProfile struct {
		Ext         string
		CompilerCmd string
		RunCmd      string
		// SetupLines are emitted before staging (extra dirs, variables).
		SetupLines []string
		Basename   string
		// AppendArgs appends quoted trailing args after RunCmd; disabled
		// for templates that place {args} themselves.
		AppendArgs bool
	}
)

// Render implements Profile.
func (p ScriptProfile) Render(source string, args []string) string {
	basename := p.Basename
	if basename == "" {
		basename = defaultBasename
	}
	argStr := quoteArgs(args)

	var b strings.Builder
	b.WriteString("tmpdir=$(mktemp -d)\n")
	b.WriteString(`src="$tmpdir/` + basename + p.Ext + "\"\n")
	writeHeredoc(&b, source)
	b.WriteString("chmod +x \"$src\" 2>/dev/null || true\n")
	b.WriteString(shellcmd.JoinQuoted(p.Interpreter) + " \"$src\"")
	if argStr != "" {
		b.WriteString(" " + argStr)
	}
	b.WriteString("\nrc=$?\nrm -rf \"$tmpdir\"\nexit $rc\n")
	return b.String()
}

// Render implements Profile.
func (p CompileProfile) Render(source string, args []string) string {
	basename := p.Basename
	if basename == "" {
		basename = defaultBasename
	}
	argStr := quoteArgs(args)

	compiler := expandPlaceholders(p.CompilerCmd, "")
	runner := expandPlaceholders(p.RunCmd, argStr)
	if p.AppendArgs && argStr != "" {
		runner += " " + argStr
	}

	var b strings.Builder
	b.WriteString("tmpdir=$(mktemp -d)\n")
	b.WriteString(`src="$tmpdir/` + basename + p.Ext + "\"\n")
	b.WriteString("bin=\"$tmpdir/pf_poly_bin\"\n")
	for _, line := range p.SetupLines {
		b.WriteString(line + "\n")
	}
	writeHeredoc(&b, source)
	b.WriteString(compiler + "\n")
	b.WriteString("rc=$?\n")
	b.WriteString("if [ $rc -eq 0 ]; then\n")
	b.WriteString("  " + runner + "\n")
	b.WriteString("  rc=$?\n")
	b.WriteString("fi\n")
	b.WriteString("rm -rf \"$tmpdir\"\nexit $rc\n")
	return b.String()
}

// writeHeredoc stages the snippet into "$src" behind the fixed delimiter.
func writeHeredoc(b *strings.Builder, source string) {
	b.WriteString("cat <<'" + heredocDelimiter + "' > \"$src\"\n")
	b.WriteString(ensureNewline(source))
	b.WriteString(heredocDelimiter + "\n")
}

// expandPlaceholders maps template placeholders onto the payload's shell
// variables. {args} expands to the quoted argument string with a leading
// space, so `java Main{args}` renders correctly with and without args.
func expandPlaceholders(tmpl, argStr string) string {
	argExpansion := ""
	if argStr != "" {
		argExpansion = " " + argStr
	}
	return strings.NewReplacer(
		"{src}", `"$src"`,
		"{bin}", `"$bin"`,
		"{dir}", `"$tmpdir"`,
		"{classes}", `"$classes"`,
		"{jar}", `"$jar"`,
		"{args}", argExpansion,
	).Replace(tmpl)
}

// quoteArgs shell-quotes trailing arguments, dropping empties.
func quoteArgs(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, a := range args {
		if a == "" {
			continue
		}
		quoted = append(quoted, shellcmd.Quote(a))
	}
	return strings.Join(quoted, " ")
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
