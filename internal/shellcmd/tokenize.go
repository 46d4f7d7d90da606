// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"errors"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnbalancedQuote is returned by Tokenize when the input ends inside a
// quoted region or a trailing escape.
var ErrUnbalancedQuote = errors.New("unbalanced quote")

// Tokenize splits a command line into a flat token list with POSIX quoting
// rules: whitespace separates tokens, single quotes preserve everything
// literally, double quotes allow backslash escapes of `"` and `\`, and a
// backslash outside quotes escapes the next character.
//
// Shell operators are not interpreted; `&&` comes back as an ordinary token.
// The full-grammar parser in mvdan.cc/sh cannot produce this flat view
// (operators become syntax-tree nodes), so the splitting is done here;
// re-quoting goes through syntax.Quote.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		// started distinguishes an empty quoted token ("") from no token.
		started bool
	)

	flush := func() {
		if started {
			tokens = append(tokens, current.String())
			current.Reset()
			started = false
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case ' ', '\t':
			flush()
		case '\\':
			if i+1 >= len(runes) {
				return nil, ErrUnbalancedQuote
			}
			i++
			current.WriteRune(runes[i])
			started = true
		case '\'':
			started = true
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\'' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, ErrUnbalancedQuote
			}
			current.WriteString(string(runes[i+1 : end]))
			i = end
		case '"':
			started = true
			closed := false
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\\' && j+1 < len(runes) && (runes[j+1] == '"' || runes[j+1] == '\\') {
					current.WriteRune(runes[j+1])
					j++
					i = j
					continue
				}
				if runes[j] == '"' {
					i = j
					closed = true
					break
				}
				current.WriteRune(runes[j])
				i = j
			}
			if !closed {
				return nil, ErrUnbalancedQuote
			}
		default:
			current.WriteRune(c)
			started = true
		}
	}
	flush()

	return tokens, nil
}

// quoteSafe lists the characters a token may consist of entirely and still
// pass through the shell bare. Covers identifiers, assignments, flags, and
// path fragments.
const quoteSafe = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"_@%+=:,./-"

// Quote shell-quotes a single token so it survives one round of shell
// evaluation unchanged. Safe tokens come back bare, so a re-quoted join like
// `make B=2` keeps its original spelling; everything else delegates to
// mvdan.cc/sh, whose only failure mode is a NUL byte, stripped rather than
// propagated.
func Quote(s string) string {
	if s != "" && strings.Trim(s, quoteSafe) == "" {
		return s
	}
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		q, _ = syntax.Quote(strings.ReplaceAll(s, "\x00", ""), syntax.LangBash)
	}
	return q
}

// JoinQuoted renders tokens as one command string with each token
// individually quoted.
func JoinQuoted(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = Quote(t)
	}
	return strings.Join(quoted, " ")
}
