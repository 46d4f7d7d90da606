// SPDX-License-Identifier: MPL-2.0

package polyglot

import (
	"strings"
)

// BrowserProfile wraps a JavaScript snippet in a Playwright driver: the
// snippet runs inside an async context with `browser` and `page` already
// set up, and the browser is closed on the way out. Launches headless
// unless PF_HEADFUL is set in the payload's environment.
type BrowserProfile struct{}

// Render implements Profile.
func (BrowserProfile) Render(source string, args []string) string {
	snippet := indent(ensureNewline(source), "  ")
	body := "const { chromium } = require('playwright');\n" +
		"(async () => {\n" +
		"  const browser = await chromium.launch({ headless: process.env.PF_HEADFUL ? false : true });\n" +
		"  const page = await browser.newPage();\n" +
		snippet +
		"  await browser.close();\n" +
		"})().catch(err => {\n" +
		"  console.error(err);\n" +
		"  process.exit(1);\n" +
		"});\n"

	argStr := quoteArgs(args)

	var b strings.Builder
	b.WriteString("tmpdir=$(mktemp -d)\n")
	b.WriteString("src=\"$tmpdir/pf_poly_browser.mjs\"\n")
	writeHeredoc(&b, body)
	b.WriteString("node \"$src\"")
	if argStr != "" {
		b.WriteString(" " + argStr)
	}
	b.WriteString("\nrc=$?\nrm -rf \"$tmpdir\"\nexit $rc\n")
	return b.String()
}

// indent prefixes every non-empty line.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
