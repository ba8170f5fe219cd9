package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/attest/pkg/attest/types"
)

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("carries current records for unchanged and modified", func(t *testing.T) {
		t.Parallel()

		ref := mustManifest(t,
			types.FileRecord{Path: "same", Hash: "ss", Size: 1, MTime: 10},
			types.FileRecord{Path: "edited", Hash: "aa", Size: 2, MTime: 20},
		)
		cur := mustManifest(t,
			types.FileRecord{Path: "same", Hash: "ss", Size: 1, MTime: 10},
			types.FileRecord{Path: "edited", Hash: "bb", Size: 3, MTime: 21},
		)

		updated, err := Update(ref, Diff(ref, cur), UpdateOptions{})
		require.NoError(t, err)

		assert.True(t, updated.Equal(cur))
	})

	t.Run("preserves reference record for corrupted by default", func(t *testing.T) {
		t.Parallel()

		ref := mustManifest(t, types.FileRecord{Path: "p", Hash: "good", Size: 4, MTime: 100})
		cur := mustManifest(t, types.FileRecord{Path: "p", Hash: "beef", Size: 4, MTime: 100})

		updated, err := Update(ref, Diff(ref, cur), UpdateOptions{})
		require.NoError(t, err)

		r, ok := updated.Get("p")
		require.True(t, ok)
		assert.Equal(t, "good", r.Hash)
	})

	t.Run("accept-corrupted carries the current record", func(t *testing.T) {
		t.Parallel()

		ref := mustManifest(t, types.FileRecord{Path: "p", Hash: "good", Size: 4, MTime: 100})
		cur := mustManifest(t, types.FileRecord{Path: "p", Hash: "beef", Size: 4, MTime: 100})

		updated, err := Update(ref, Diff(ref, cur), UpdateOptions{AcceptCorrupted: true})
		require.NoError(t, err)

		r, ok := updated.Get("p")
		require.True(t, ok)
		assert.Equal(t, "beef", r.Hash)
	})

	t.Run("applies moves, additions, and removals", func(t *testing.T) {
		t.Parallel()

		ref := mustManifest(t,
			types.FileRecord{Path: "old/place.txt", Hash: "mm", Size: 5, MTime: 10},
			types.FileRecord{Path: "gone.txt", Hash: "gg", Size: 1, MTime: 10},
		)
		cur := mustManifest(t,
			types.FileRecord{Path: "new/place.txt", Hash: "mm", Size: 5, MTime: 11},
			types.FileRecord{Path: "fresh.txt", Hash: "ff", Size: 2, MTime: 12},
		)

		updated, err := Update(ref, Diff(ref, cur), UpdateOptions{})
		require.NoError(t, err)

		assert.True(t, updated.Equal(cur))
		_, hasOld := updated.Get("old/place.txt")
		assert.False(t, hasOld, "old side of move must be dropped")
		_, hasGone := updated.Get("gone.txt")
		assert.False(t, hasGone, "removed path must be dropped")
	})

	t.Run("reference is not mutated", func(t *testing.T) {
		t.Parallel()

		ref := mustManifest(t, types.FileRecord{Path: "p", Hash: "aa", Size: 1, MTime: 10})
		cur := mustManifest(t, types.FileRecord{Path: "p", Hash: "bb", Size: 1, MTime: 11})

		_, err := Update(ref, Diff(ref, cur), UpdateOptions{})
		require.NoError(t, err)

		r, _ := ref.Get("p")
		assert.Equal(t, "aa", r.Hash)
	})
}
