// SPDX-License-Identifier: MPL-2.0

package container

// DockerEngine drives the Docker CLI.
type DockerEngine struct {
	cliEngine
}

// NewDockerEngine creates a Docker engine bound to the docker binary on
// PATH, if any.
func NewDockerEngine() *DockerEngine {
	return &DockerEngine{cliEngine: newCLIEngine("docker")}
}
