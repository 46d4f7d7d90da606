// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"fmt"
	"strings"

	"pfrunner/internal/issue"
	"pfrunner/pkg/types"
)

// Split parses a raw command line into its leading environment assignments
// and the remaining command, handling syntax like:
//
//	ENV_VAR=value ENV2=value2 bash -lc "script.sh"
//
// A leading token counts as an assignment iff it contains `=`, does not
// begin with `-`, and its left-hand side is a valid identifier. The first
// token that fails the test and everything after it re-joins into the
// remaining command, each token individually re-quoted.
func Split(line string) (*types.EnvMap, string, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, "", &issue.SyntaxError{
			Message: fmt.Sprintf("failed to parse shell command: %s: %v", line, err),
			Suggestions: []string{
				"Check for unclosed quotes or invalid escape sequences",
			},
			Cause: err,
		}
	}

	env := types.NewEnvMap()
	rest := []string(nil)
	for i, tok := range tokens {
		if strings.Contains(tok, "=") && !strings.HasPrefix(tok, "-") {
			key, value, _ := strings.Cut(tok, "=")
			if types.IsValidEnvVarName(key) {
				env.Set(key, value)
				continue
			}
		}
		rest = tokens[i:]
		break
	}

	return env, JoinQuoted(rest), nil
}
