// SPDX-License-Identifier: MPL-2.0

package polyglot

import (
	"strings"
)

// AndroidProfile compiles Java to Dalvik bytecode and runs it on dalvikvm
// when an Android toolchain is discoverable, falling back to a host JVM run
// otherwise.
//
// Discovery order: ANDROID_PLATFORM_JAR / ANDROID_D8 override everything;
// otherwise the newest entries under $ANDROID_SDK_ROOT (or $ANDROID_HOME)
// platforms/ and build-tools/ are probed at payload runtime.
type AndroidProfile struct{}

// Render implements Profile.
func (AndroidProfile) Render(source string, args []string) string {
	argSuffix := ""
	if argStr := quoteArgs(args); argStr != "" {
		argSuffix = " " + argStr
	}

	var b strings.Builder
	b.WriteString("tmpdir=$(mktemp -d)\n")
	b.WriteString("src=\"$tmpdir/Main.java\"\n")
	b.WriteString("classes=\"$tmpdir/classes\"\n")
	b.WriteString("dexdir=\"$tmpdir/dex\"\n")
	b.WriteString("mkdir -p \"$classes\" \"$dexdir\"\n")
	writeHeredoc(&b, source)
	b.WriteString(`
ANDROID_SDK="${ANDROID_SDK_ROOT:-${ANDROID_HOME:-}}"
platform_jar="${ANDROID_PLATFORM_JAR:-}"
if [ -z "$platform_jar" ] && [ -n "$ANDROID_SDK" ]; then
  latest_platform=$(ls -1 "$ANDROID_SDK/platforms" 2>/dev/null | sort -V | tail -1)
  if [ -n "$latest_platform" ] && [ -f "$ANDROID_SDK/platforms/$latest_platform/android.jar" ]; then
    platform_jar="$ANDROID_SDK/platforms/$latest_platform/android.jar"
  fi
fi
javac_cp=""
if [ -n "$platform_jar" ] && [ -f "$platform_jar" ]; then
  javac_cp="-classpath $platform_jar"
fi
javac $javac_cp -d "$classes" "$src"
rc=$?
if [ $rc -ne 0 ]; then
  rm -rf "$tmpdir"
  exit $rc
fi

d8_bin="${ANDROID_D8:-}"
if [ -z "$d8_bin" ] && [ -n "$ANDROID_SDK" ]; then
  latest_bt=$(ls -1 "$ANDROID_SDK/build-tools" 2>/dev/null | sort -V | tail -1)
  if [ -n "$latest_bt" ] && [ -x "$ANDROID_SDK/build-tools/$latest_bt/d8" ]; then
    d8_bin="$ANDROID_SDK/build-tools/$latest_bt/d8"
  fi
fi

if [ -n "$d8_bin" ] && command -v dalvikvm >/dev/null 2>&1; then
  "$d8_bin" --output "$dexdir" "$classes" >/dev/null
  rc=$?
  if [ $rc -eq 0 ]; then
    dalvikvm -cp "$dexdir/classes.dex" Main` + argSuffix + `
    rc=$?
    rm -rf "$tmpdir"
    exit $rc
  fi
fi

(cd "$classes" && java Main` + argSuffix + `)
rc=$?
rm -rf "$tmpdir"
exit $rc
`)
	return b.String()
}
