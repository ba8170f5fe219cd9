package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSum(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields the defined empty digest", func(t *testing.T) {
		t.Parallel()

		digest, size, err := Sum(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("Sum() error = %v", err)
		}
		if digest != EmptyDigest {
			t.Errorf("digest = %s, want %s", digest, EmptyDigest)
		}
		if size != 0 {
			t.Errorf("size = %d, want 0", size)
		}
	})

	t.Run("digest is deterministic", func(t *testing.T) {
		t.Parallel()

		d1, _, err := Sum(strings.NewReader("hello world"))
		if err != nil {
			t.Fatalf("Sum() error = %v", err)
		}
		d2, _, err := Sum(strings.NewReader("hello world"))
		if err != nil {
			t.Fatalf("Sum() error = %v", err)
		}
		if d1 != d2 {
			t.Errorf("digests differ: %s vs %s", d1, d2)
		}
	})

	t.Run("digest distinguishes content", func(t *testing.T) {
		t.Parallel()

		d1, _, _ := Sum(strings.NewReader("x"))
		d2, _, _ := Sum(strings.NewReader("y"))
		if d1 == d2 {
			t.Error("distinct content produced identical digests")
		}
	})

	t.Run("input larger than one chunk", func(t *testing.T) {
		t.Parallel()

		data := bytes.Repeat([]byte("abcdefgh"), 3*bufferSize/8)
		digest, size, err := Sum(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Sum() error = %v", err)
		}
		if size != int64(len(data)) {
			t.Errorf("size = %d, want %d", size, len(data))
		}
		if len(digest) != 64 {
			t.Errorf("digest length = %d, want 64 hex chars", len(digest))
		}
	})
}

func TestSumFile(t *testing.T) {
	t.Parallel()

	t.Run("hashes file content", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "data.bin")
		if err := os.WriteFile(path, []byte("some content"), 0o644); err != nil {
			t.Fatal(err)
		}

		fromFile, size, err := SumFile(path)
		if err != nil {
			t.Fatalf("SumFile() error = %v", err)
		}
		fromReader, _, _ := Sum(strings.NewReader("some content"))

		if fromFile != fromReader {
			t.Errorf("SumFile digest = %s, want %s", fromFile, fromReader)
		}
		if size != int64(len("some content")) {
			t.Errorf("size = %d, want %d", size, len("some content"))
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		t.Parallel()

		_, _, err := SumFile(filepath.Join(t.TempDir(), "nope"))
		if err == nil {
			t.Fatal("SumFile() error = nil, want error")
		}
	})
}
