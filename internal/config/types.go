// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Config is the resolved pf configuration.
	Config struct {
		// DefaultFile is the task file name searched for upward from the
		// working directory.
		DefaultFile string `mapstructure:"default_file"`
		// Parallel configures the parallel task pool.
		Parallel ParallelConfig `mapstructure:"parallel"`
		// Remote supplies SSH connection defaults.
		Remote RemoteConfig `mapstructure:"remote"`
		// UI configures output behavior.
		UI UIConfig `mapstructure:"ui"`
	}

	// ParallelConfig bounds concurrent task execution.
	ParallelConfig struct {
		// Workers is the parallel pool size.
		Workers int `mapstructure:"workers"`
	}

	// RemoteConfig fills the gaps a host spec leaves open.
	RemoteConfig struct {
		User         string `mapstructure:"user"`
		Port         int    `mapstructure:"port"`
		IdentityFile string `mapstructure:"identity_file"`
	}

	// UIConfig configures output behavior.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults applied before any file or
// environment override.
func DefaultConfig() *Config {
	return &Config{
		DefaultFile: "Pfyfile.pf",
		Parallel:    ParallelConfig{Workers: 4},
		Remote:      RemoteConfig{Port: 22},
	}
}
