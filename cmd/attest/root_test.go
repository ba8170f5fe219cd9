package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/attest/pkg/attest/manifest"
)

// The CLI tests drive the real cobra command tree and share global flag
// state, so they run sequentially.

func execute(t *testing.T, args ...string) error {
	t.Helper()

	// Flag values persist across executions of the shared command tree.
	buildOutput = ""
	verifyManifest = ""
	verifyUpdate = false
	acceptCorrupted = false
	verifyFormat = ""

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestBuildVerifyCycle(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	file := filepath.Join(root, "a", "1.txt")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", "2.txt"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	manifestPath := filepath.Join(t.TempDir(), "baseline.json")

	if err := execute(t, "build", root, "-o", manifestPath); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(manifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	t.Run("clean tree verifies with exit success", func(t *testing.T) {
		if err := execute(t, "verify", root, "-m", manifestPath, "-f", "plain"); err != nil {
			t.Fatalf("verify: %v", err)
		}
	})

	t.Run("bitrot forces the corruption error", func(t *testing.T) {
		info, err := os.Stat(file)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(file, []byte("z"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(file, info.ModTime(), info.ModTime()); err != nil {
			t.Fatal(err)
		}

		err = execute(t, "verify", root, "-m", manifestPath, "-f", "plain")
		if !errors.Is(err, errCorruptionDetected) {
			t.Fatalf("verify error = %v, want errCorruptionDetected", err)
		}
	})

	t.Run("missing manifest is fatal", func(t *testing.T) {
		err := execute(t, "verify", root, "-m", filepath.Join(t.TempDir(), "nope.json"))
		if err == nil {
			t.Fatal("verify error = nil, want error")
		}
		if errors.Is(err, errCorruptionDetected) {
			t.Fatal("missing manifest misreported as corruption")
		}
	})
}

func TestInRootManifestStaysOutOfSnapshot(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "data.txt"), []byte("d"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Default manifest location, inside the walked tree.
	if err := execute(t, "build", root); err != nil {
		t.Fatalf("build: %v", err)
	}

	manifestPath := filepath.Join(root, ".attest.json")
	m, err := manifest.Load(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if _, ok := m.Get(".attest.json"); ok {
		t.Fatal("manifest records itself")
	}

	// A clean tree must verify clean even with the manifest in place, and
	// --update must not fold the manifest file into the baseline.
	if err := execute(t, "verify", root, "-f", "plain", "--update"); err != nil {
		t.Fatalf("verify --update: %v", err)
	}
	m, err = manifest.Load(manifestPath)
	if err != nil {
		t.Fatalf("reload manifest: %v", err)
	}
	if _, ok := m.Get(".attest.json"); ok {
		t.Fatal("updated manifest records itself")
	}
	if err := execute(t, "verify", root, "-f", "plain"); err != nil {
		t.Fatalf("second verify: %v", err)
	}
}

func TestManifestExclusions(t *testing.T) {
	root := t.TempDir()

	got := manifestExclusions(root, filepath.Join(root, ".attest.json"))
	if len(got) != 1 || got[0] != ".attest.json" {
		t.Errorf("manifestExclusions = %v, want [.attest.json]", got)
	}

	got = manifestExclusions(root, filepath.Join(root, "sub", "baseline.json"))
	if len(got) != 1 || got[0] != "sub/baseline.json" {
		t.Errorf("manifestExclusions = %v, want [sub/baseline.json]", got)
	}

	if got := manifestExclusions(root, filepath.Join(t.TempDir(), "m.json")); got != nil {
		t.Errorf("manifestExclusions = %v, want nil for out-of-tree manifest", got)
	}
}

func TestManifestPathFor(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	initConfig()

	if got := manifestPathFor("/data", "/explicit.json"); got != "/explicit.json" {
		t.Errorf("explicit path ignored, got %q", got)
	}

	got := manifestPathFor("/data", "")
	want := filepath.Join("/data", ".attest.json")
	if got != want {
		t.Errorf("manifestPathFor = %q, want %q", got, want)
	}
}
