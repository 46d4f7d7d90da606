// SPDX-License-Identifier: MPL-2.0

// Package polyglot renders inline snippets in 40+ languages into
// self-cleaning shell payloads.
package polyglot

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"pfrunner/internal/issue"
)

// languages maps every canonical language key to its payload profile.
var languages = map[string]Profile{
	// Shells
	"bash": ScriptProfile{Interpreter: []string{"bash"}, Ext: ".sh"},
	"sh":   ScriptProfile{Interpreter: []string{"sh"}, Ext: ".sh"},
	"dash": ScriptProfile{Interpreter: []string{"dash"}, Ext: ".sh"},
	"zsh":  ScriptProfile{Interpreter: []string{"zsh"}, Ext: ".sh"},
	"fish": ScriptProfile{Interpreter: []string{"fish"}, Ext: ".fish"},
	"ksh":  ScriptProfile{Interpreter: []string{"ksh"}, Ext: ".sh"},
	"tcsh": ScriptProfile{Interpreter: []string{"tcsh"}, Ext: ".csh"},
	"pwsh": ScriptProfile{Interpreter: []string{"pwsh", "-NoLogo", "-NonInteractive", "-File"}, Ext: ".ps1"},

	// Scripting / interpreted
	"python":  ScriptProfile{Interpreter: []string{"python3"}, Ext: ".py"},
	"node":    ScriptProfile{Interpreter: []string{"node"}, Ext: ".js"},
	"deno":    ScriptProfile{Interpreter: []string{"deno", "run"}, Ext: ".ts"},
	"ts-node": ScriptProfile{Interpreter: []string{"ts-node"}, Ext: ".ts"},
	"perl":    ScriptProfile{Interpreter: []string{"perl"}, Ext: ".pl"},
	"php":     ScriptProfile{Interpreter: []string{"php"}, Ext: ".php"},
	"ruby":    ScriptProfile{Interpreter: []string{"ruby"}, Ext: ".rb"},
	"r":       ScriptProfile{Interpreter: []string{"Rscript"}, Ext: ".R"},
	"julia":   ScriptProfile{Interpreter: []string{"julia"}, Ext: ".jl"},
	"haskell": ScriptProfile{Interpreter: []string{"runghc"}, Ext: ".hs"},
	"ocaml":   ScriptProfile{Interpreter: []string{"ocaml"}, Ext: ".ml"},
	"elixir":  ScriptProfile{Interpreter: []string{"elixir"}, Ext: ".exs"},
	"dart":    ScriptProfile{Interpreter: []string{"dart", "run"}, Ext: ".dart"},
	"lua":     ScriptProfile{Interpreter: []string{"lua"}, Ext: ".lua"},

	// Compiled / AOT. Go runs as a script profile since `go run` hides the
	// compile step.
	"go":   ScriptProfile{Interpreter: []string{"go", "run"}, Ext: ".go"},
	"rust": CompileProfile{Ext: ".rs", CompilerCmd: "rustc {src} -o {bin}", RunCmd: "{bin}", AppendArgs: true},
	"c":    CompileProfile{Ext: ".c", CompilerCmd: "clang -x c {src} -o {bin}", RunCmd: "{bin}", AppendArgs: true},
	"cpp":  CompileProfile{Ext: ".cc", CompilerCmd: "clang++ {src} -o {bin}", RunCmd: "{bin}", AppendArgs: true},
	"c-llvm": CompileProfile{
		Ext:         ".c",
		CompilerCmd: "clang -x c -O3 -S -emit-llvm {src} -o {bin}.ll && cat {bin}.ll",
		RunCmd:      "echo '(LLVM IR generated with O3 optimization)'",
		AppendArgs:  true,
	},
	"cpp-llvm": CompileProfile{
		Ext:         ".cc",
		CompilerCmd: "clang++ -O3 -S -emit-llvm {src} -o {bin}.ll && cat {bin}.ll",
		RunCmd:      "echo '(LLVM IR generated with O3 optimization)'",
		AppendArgs:  true,
	},
	"c-llvm-bc": CompileProfile{
		Ext:         ".c",
		CompilerCmd: "clang -x c -O3 -c -emit-llvm {src} -o {bin}.bc && llvm-dis {bin}.bc -o {bin}.ll && cat {bin}.ll",
		RunCmd:      "echo '(LLVM bitcode generated with O3 optimization)'",
		AppendArgs:  true,
	},
	"cpp-llvm-bc": CompileProfile{
		Ext:         ".cc",
		CompilerCmd: "clang++ -O3 -c -emit-llvm {src} -o {bin}.bc && llvm-dis {bin}.bc -o {bin}.ll && cat {bin}.ll",
		RunCmd:      "echo '(LLVM bitcode generated with O3 optimization)'",
		AppendArgs:  true,
	},
	"fortran": CompileProfile{Ext: ".f90", CompilerCmd: "gfortran {src} -o {bin}", RunCmd: "{bin}", AppendArgs: true},
	"fortran-llvm": CompileProfile{
		Ext:         ".f90",
		CompilerCmd: "flang -O3 {src} -S -emit-llvm -o {bin}.ll && cat {bin}.ll",
		RunCmd:      "echo '(LLVM IR generated with O3 optimization)'",
		AppendArgs:  true,
	},
	"asm":             CompileProfile{Ext: ".s", CompilerCmd: "clang -x assembler {src} -o {bin}", RunCmd: "{bin}", AppendArgs: true},
	"zig":             CompileProfile{Ext: ".zig", CompilerCmd: "zig build-exe -O Debug -femit-bin={bin} {src}", RunCmd: "{bin}", AppendArgs: true},
	"nim":             CompileProfile{Ext: ".nim", CompilerCmd: "nim c -o:{bin} {src}", RunCmd: "{bin}", AppendArgs: true},
	"crystal":         CompileProfile{Ext: ".cr", CompilerCmd: "crystal build -o {bin} {src}", RunCmd: "{bin}", AppendArgs: true},
	"haskell-compile": CompileProfile{Ext: ".hs", CompilerCmd: "ghc -o {bin} {src}", RunCmd: "{bin}", AppendArgs: true},
	"ocamlc":          CompileProfile{Ext: ".ml", CompilerCmd: "ocamlc -o {bin} {src}", RunCmd: "{bin}", AppendArgs: true},

	// JVM
	"java-openjdk": CompileProfile{
		Ext:         ".java",
		CompilerCmd: "javac -d {classes} {src}",
		RunCmd:      "(cd {classes} && java Main{args})",
		SetupLines:  []string{`classes="$tmpdir/classes"`, `mkdir -p "$classes"`},
		Basename:    "Main",
	},
	"java-android": AndroidProfile{},

	// Browser automation
	"browser-js": BrowserProfile{},
}

// aliases maps accepted spellings to canonical language keys.
var aliases = map[string]string{
	// Shells
	"shell":      "bash",
	"sh":         "sh",
	"zshell":     "zsh",
	"powershell": "pwsh",
	"ps1":        "pwsh",
	// Python
	"py":      "python",
	"python3": "python",
	"ipython": "python",
	// JavaScript / TypeScript
	"javascript": "node",
	"js":         "node",
	"nodejs":     "node",
	"ts":         "deno",
	"typescript": "deno",
	"tsnode":     "ts-node",
	// C-family
	"c++":        "cpp",
	"cxx":        "cpp",
	"clang":      "c",
	"clang++":    "cpp",
	"g++":        "cpp",
	"gcc":        "c",
	"c-ir":       "c-llvm",
	"c-ll":       "c-llvm",
	"cpp-ir":     "cpp-llvm",
	"cpp-ll":     "cpp-llvm",
	"c-bc":       "c-llvm-bc",
	"cpp-bc":     "cpp-llvm-bc",
	"fortran-ll": "fortran-llvm",
	"fortran-ir": "fortran-llvm",
	// Others
	"golang":              "go",
	"rb":                  "ruby",
	"pl":                  "perl",
	"ml":                  "ocaml",
	"hs":                  "haskell",
	"fortran90":           "fortran",
	"gfortran":            "fortran",
	"java":                "java-openjdk",
	"java-openjdk":        "java-openjdk",
	"java-android-google": "java-android",
	"java-android":        "java-android",
	"android-java":        "java-android",
	"fishshell":           "fish",
	"shellscript":         "bash",
	"dashshell":           "dash",
	"asm86":               "asm",
	"browser":             "browser-js",
	"playwright":          "browser-js",
}

// Canonical lowercases and trims the hint, then resolves it through the
// alias table. Unknown hints come back unchanged so the caller can report
// both the hint and the resolved key.
func Canonical(hint string) string {
	key := strings.ToLower(strings.TrimSpace(hint))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// IsSupported reports whether hint resolves to a registered language.
func IsSupported(hint string) bool {
	_, ok := languages[Canonical(hint)]
	return ok
}

// Supported returns the sorted canonical language keys.
func Supported() []string {
	keys := maps.Keys(languages)
	slices.Sort(keys)
	return keys
}

// Aliases returns a copy of the alias table.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	maps.Copy(out, aliases)
	return out
}

// Render turns one snippet command into an executable shell payload. The
// command may carry a file reference (`@path` or `file:path`, resolved
// against baseDir) followed by trailing arguments; otherwise the whole
// command is the inline source. extraArgs append after any arguments written
// in the command itself. Returns the payload and the canonical language key.
func Render(langHint, cmd, baseDir string, extraArgs ...string) (string, string, error) {
	key := Canonical(langHint)
	profile, ok := languages[key]
	if !ok {
		return "", "", &issue.ExecutionError{
			Message: fmt.Sprintf("language %q (from %q) has no builder registered", key, langHint),
			Suggestions: []string{
				"Supported languages: " + strings.Join(Supported(), ", "),
			},
		}
	}

	snippet, args, _, err := ExtractSource(cmd, baseDir)
	if err != nil {
		return "", "", err
	}
	args = append(args, extraArgs...)
	return profile.Render(snippet, args), key, nil
}
