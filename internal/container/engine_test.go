// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestEngineNames(t *testing.T) {
	t.Parallel()

	if got := NewDockerEngine().Name(); got != "docker" {
		t.Errorf("docker Name() = %q", got)
	}
	if got := NewPodmanEngine().Name(); got != "podman" {
		t.Errorf("podman Name() = %q", got)
	}
}

func TestAvailableFalseWithoutBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if NewDockerEngine().Available() {
		t.Error("docker reported available with an empty PATH")
	}
	if Detect() != nil {
		t.Error("Detect found an engine with an empty PATH")
	}
}

// fakeEngine lets Prune flow be tested without a container runtime.
type fakeEngine struct {
	name   string
	pruned []PruneOptions
}

func (f *fakeEngine) Name() string    { return f.name }
func (f *fakeEngine) Available() bool { return true }

func (f *fakeEngine) Prune(ctx context.Context, opts PruneOptions) error {
	f.pruned = append(f.pruned, opts)
	return nil
}

func TestPruneThroughEngineInterface(t *testing.T) {
	t.Parallel()

	var engine Engine = &fakeEngine{name: "fake"}
	var out bytes.Buffer
	if err := engine.Prune(context.Background(), PruneOptions{Volumes: true, Stdout: &out}); err != nil {
		t.Fatalf("Prune error: %v", err)
	}
	fake := engine.(*fakeEngine)
	if len(fake.pruned) != 1 || !fake.pruned[0].Volumes {
		t.Errorf("prune calls = %+v", fake.pruned)
	}
}

func TestCLIEnginePruneInvokesSystemPrune(t *testing.T) {
	binDir := t.TempDir()
	logFile := filepath.Join(binDir, "calls.log")
	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %s\n", logFile)
	if err := os.WriteFile(filepath.Join(binDir, "docker"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	engine := NewDockerEngine()
	if !engine.Available() {
		t.Fatal("stub docker not detected")
	}
	if err := engine.Prune(context.Background(), PruneOptions{Volumes: true}); err != nil {
		t.Fatalf("Prune error: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !bytes.Contains(data, []byte("system prune -f --volumes")) {
		t.Errorf("stub received %q, want system prune -f --volumes", got)
	}
}
