// SPDX-License-Identifier: MPL-2.0

// Package debugmode manages the persistent debug toggle: a small TOML
// marker file in the user's home directory whose existence turns verbose
// diagnostics on across invocations.
package debugmode

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// markerFileName lives directly under the home directory.
const markerFileName = ".pf_debug"

// Marker is the persisted toggle. The file's existence is what enables
// debug mode; the fields record when and by which tool version it was set.
type Marker struct {
	Enabled   bool      `toml:"enabled"`
	EnabledAt time.Time `toml:"enabled_at"`
	Version   string    `toml:"version,omitempty"`
}

// MarkerPath returns the marker file location.
func MarkerPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, markerFileName), nil
}

// Enable writes the marker atomically: temp file in the same directory,
// then rename, so a concurrent reader never sees a partial file.
func Enable(version string) error {
	path, err := MarkerPath()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(Marker{Enabled: true, EnabledAt: time.Now().UTC(), Version: version})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), markerFileName+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Disable removes the marker; a missing marker is not an error.
func Disable() error {
	path, err := MarkerPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Enabled reports whether the marker exists.
func Enabled() bool {
	path, err := MarkerPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Active reports whether debug output should be on for this invocation:
// the --debug flag, the PF_DEBUG environment variable, or the persistent
// marker.
func Active(flag bool) bool {
	if flag {
		return true
	}
	if v := os.Getenv("PF_DEBUG"); v != "" && v != "0" {
		return true
	}
	return Enabled()
}
