// SPDX-License-Identifier: MPL-2.0

package debugmode

import (
	"os"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestEnableDisableCycle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PF_DEBUG", "")

	if Enabled() {
		t.Fatal("fresh home reports debug enabled")
	}

	if err := Enable("1.2.3"); err != nil {
		t.Fatalf("Enable error: %v", err)
	}
	if !Enabled() {
		t.Fatal("Enabled() false after Enable")
	}

	path, err := MarkerPath()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("marker not readable: %v", err)
	}
	var m Marker
	if err := toml.Unmarshal(data, &m); err != nil {
		t.Fatalf("marker is not valid TOML: %v", err)
	}
	if !m.Enabled || m.Version != "1.2.3" || m.EnabledAt.IsZero() {
		t.Errorf("marker content = %+v", m)
	}

	if err := Disable(); err != nil {
		t.Fatalf("Disable error: %v", err)
	}
	if Enabled() {
		t.Error("Enabled() true after Disable")
	}

	// Disabling twice must stay quiet.
	if err := Disable(); err != nil {
		t.Errorf("second Disable error: %v", err)
	}
}

func TestActive(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Setenv("PF_DEBUG", "")
	if Active(false) {
		t.Error("Active(false) with no marker and no env")
	}
	if !Active(true) {
		t.Error("Active(true) ignored the flag")
	}

	t.Setenv("PF_DEBUG", "1")
	if !Active(false) {
		t.Error("Active(false) ignored PF_DEBUG=1")
	}

	t.Setenv("PF_DEBUG", "0")
	if Active(false) {
		t.Error("PF_DEBUG=0 treated as enabled")
	}

	t.Setenv("PF_DEBUG", "")
	if err := Enable(""); err != nil {
		t.Fatal(err)
	}
	if !Active(false) {
		t.Error("Active(false) ignored the persistent marker")
	}
}
