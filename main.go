// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "pfrunner/cmd/pf"
)

func main() {
	cmd.Execute()
}
