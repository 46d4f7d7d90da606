// SPDX-License-Identifier: MPL-2.0

package polyglot

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"pfrunner/internal/issue"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hint string
		want string
	}{
		{"py", "python"},
		{"python3", "python"},
		{"Python", "python"},
		{"  js ", "node"},
		{"golang", "go"},
		{"c++", "cpp"},
		{"java", "java-openjdk"},
		{"android-java", "java-android"},
		{"shellscript", "bash"},
		{"ts", "deno"},
		{"playwright", "browser-js"},
		{"rust", "rust"},
		{"made-up-lang", "made-up-lang"},
	}

	for _, tt := range tests {
		if got := Canonical(tt.hint); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.hint, got, tt.want)
		}
	}
}

func TestEveryAliasTargetIsRegistered(t *testing.T) {
	t.Parallel()

	for name, target := range Aliases() {
		if !IsSupported(target) {
			t.Errorf("alias %q points at unregistered language %q", name, target)
		}
	}
}

func TestSupportedIsSorted(t *testing.T) {
	t.Parallel()

	keys := Supported()
	if len(keys) < 40 {
		t.Fatalf("Supported() returned %d languages, want at least 40", len(keys))
	}
	if !sort.StringsAreSorted(keys) {
		t.Errorf("Supported() not sorted: %v", keys)
	}
}

func TestRenderUnknownLanguage(t *testing.T) {
	t.Parallel()

	_, _, err := Render("klingon", "print hi", "")
	if err == nil {
		t.Fatal("Render accepted an unknown language")
	}
	if !errors.Is(err, issue.ErrExecution) {
		t.Errorf("error = %T, want ExecutionError sentinel", err)
	}
	var execErr *issue.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error is not *issue.ExecutionError: %T", err)
	}
	if len(execErr.Suggestions) == 0 {
		t.Fatal("unknown-language error has no suggestion")
	}
	// The suggestion enumerates the full supported set in sorted order.
	suggestion := execErr.Suggestions[0]
	for _, key := range Supported() {
		if !strings.Contains(suggestion, key) {
			t.Errorf("suggestion missing language %q", key)
		}
	}
}

func TestRenderScriptPayloadStructure(t *testing.T) {
	t.Parallel()

	payload, key, err := Render("py", `print("hi")`, "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if key != "python" {
		t.Errorf("canonical key = %q, want python", key)
	}

	for _, want := range []string{
		"tmpdir=$(mktemp -d)",
		`src="$tmpdir/pf_poly.py"`,
		"cat <<'__PFY_LANG__' > \"$src\"",
		`print("hi")` + "\n__PFY_LANG__",
		`python3 "$src"`,
		"rc=$?",
		`rm -rf "$tmpdir"`,
		"exit $rc",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q:\n%s", want, payload)
		}
	}
}

func TestRenderCompilePayloadRunsOnlyAfterSuccess(t *testing.T) {
	t.Parallel()

	payload, key, err := Render("rust", "fn main() {}", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if key != "rust" {
		t.Errorf("canonical key = %q", key)
	}
	for _, want := range []string{
		`rustc "$src" -o "$bin"`,
		"if [ $rc -eq 0 ]; then",
		`"$bin"`,
		`rm -rf "$tmpdir"`,
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q:\n%s", want, payload)
		}
	}
}

func TestRenderJavaUsesClassesDirAndMainBasename(t *testing.T) {
	t.Parallel()

	payload, _, err := Render("java", "public class Main {}", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, want := range []string{
		`src="$tmpdir/Main.java"`,
		`classes="$tmpdir/classes"`,
		`javac -d "$classes" "$src"`,
		`(cd "$classes" && java Main)`,
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q:\n%s", want, payload)
		}
	}
}

func TestRenderAndroidProbesToolchainAndFallsBack(t *testing.T) {
	t.Parallel()

	payload, _, err := Render("java-android", "public class Main {}", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, want := range []string{
		`ANDROID_SDK="${ANDROID_SDK_ROOT:-${ANDROID_HOME:-}}"`,
		`platform_jar="${ANDROID_PLATFORM_JAR:-}"`,
		`d8_bin="${ANDROID_D8:-}"`,
		"command -v dalvikvm",
		`dalvikvm -cp "$dexdir/classes.dex" Main`,
		`(cd "$classes" && java Main)`,
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q", want)
		}
	}
}

func TestRenderBrowserWrapsSnippetInDriver(t *testing.T) {
	t.Parallel()

	payload, key, err := Render("browser", "await page.goto('https://example.com');", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if key != "browser-js" {
		t.Errorf("canonical key = %q", key)
	}
	for _, want := range []string{
		"const { chromium } = require('playwright');",
		"headless: process.env.PF_HEADFUL ? false : true",
		"  await page.goto('https://example.com');",
		"await browser.close();",
		`node "$src"`,
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q:\n%s", want, payload)
		}
	}
}

func TestRenderForwardsExtraArgs(t *testing.T) {
	t.Parallel()

	payload, _, err := Render("py", "print(1)", "", "alpha", "two words")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(payload, `python3 "$src" alpha 'two words'`) {
		t.Errorf("extra args not forwarded to the interpreter line:\n%s", payload)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	first, _, err := Render("bash", "echo hi", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	second, _, err := Render("bash", "echo hi", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if first != second {
		t.Error("identical inputs rendered different payloads")
	}
}

func TestRenderAppendsNewlineToSource(t *testing.T) {
	t.Parallel()

	payload, _, err := Render("sh", "echo no-trailing-newline", "")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(payload, "echo no-trailing-newline\n__PFY_LANG__\n") {
		t.Errorf("source not newline-terminated before the delimiter:\n%s", payload)
	}
}
