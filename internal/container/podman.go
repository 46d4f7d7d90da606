// SPDX-License-Identifier: MPL-2.0

package container

// PodmanEngine drives the Podman CLI.
type PodmanEngine struct {
	cliEngine
}

// NewPodmanEngine creates a Podman engine bound to the podman binary on
// PATH, if any.
func NewPodmanEngine() *PodmanEngine {
	return &PodmanEngine{cliEngine: newCLIEngine("podman")}
}
