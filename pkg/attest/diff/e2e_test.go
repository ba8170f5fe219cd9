package diff_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/attest/pkg/attest/builder"
	"github.com/jamesainslie/attest/pkg/attest/diff"
	"github.com/jamesainslie/attest/pkg/attest/manifest"
)

// TestDetectsBitrotEndToEnd exercises the whole engine: snapshot a tree,
// flip bytes in one file while restoring its original mtime (the bitrot
// signature), and verify against the persisted baseline.
func TestDetectsBitrotEndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fileOne := filepath.Join(root, "a", "1.txt")
	fileTwo := filepath.Join(root, "a", "2.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(fileOne), 0o755))
	require.NoError(t, os.WriteFile(fileOne, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fileTwo, []byte("y"), 0o644))

	// Baseline.
	built, err := builder.New(builder.Options{Root: root}).Build(context.Background())
	require.NoError(t, err)

	manifestPath := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, built.Manifest.Save(manifestPath))

	// Corrupt 1.txt: rewrite content, then restore the recorded mtime.
	info, err := os.Stat(fileOne)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fileOne, []byte("z"), 0o644))
	require.NoError(t, os.Chtimes(fileOne, info.ModTime(), info.ModTime()))

	// Verify.
	ref, err := manifest.Load(manifestPath)
	require.NoError(t, err)

	current, err := builder.New(builder.Options{Root: root}).Build(context.Background())
	require.NoError(t, err)

	report := diff.Diff(ref, current.Manifest)

	require.True(t, report.HasCorruption())
	assert.Equal(t, 1, report.Summary.Corrupted)
	assert.Equal(t, 1, report.Summary.Unchanged)

	corrupted := report.Entries[0]
	assert.Equal(t, diff.KindCorrupted, corrupted.Kind)
	assert.Equal(t, "a/1.txt", corrupted.Path)
	assert.NotEqual(t, corrupted.Old.Hash, corrupted.New.Hash)
	assert.Equal(t, corrupted.Old.MTime, corrupted.New.MTime)
}

// TestLegitimateEditEndToEnd is the control: the same edit with a moved
// mtime is a modification, not corruption.
func TestLegitimateEditEndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("draft"), 0o644))

	built, err := builder.New(builder.Options{Root: root}).Build(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, []byte("final"), 0o644))
	later := info.ModTime().Add(5 * time.Second)
	require.NoError(t, os.Chtimes(file, later, later))

	current, err := builder.New(builder.Options{Root: root}).Build(context.Background())
	require.NoError(t, err)

	report := diff.Diff(built.Manifest, current.Manifest)

	assert.False(t, report.HasCorruption())
	assert.Equal(t, 1, report.Summary.Modified)
}
