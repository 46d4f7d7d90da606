// SPDX-License-Identifier: MPL-2.0

package shellcmd

import (
	"pfrunner/pkg/types"
)

// BuildRemoteCommand renders the single composite command string submitted
// to a remote connection: environment exports first, then the command, then
// sudo wrapping when requested. `-lc` gives the elevated shell a login
// environment on the remote side.
func BuildRemoteCommand(envVars *types.EnvMap, command string, taskEnv *types.EnvMap, sudo bool, sudoUser string) string {
	full := exportPrefixed(envVars, command, taskEnv)

	if sudo {
		if sudoUser != "" {
			return "sudo -u " + Quote(sudoUser) + " -H bash -lc " + Quote(full)
		}
		return "sudo bash -lc " + Quote(full)
	}
	return full
}
