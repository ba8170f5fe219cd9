// Package hasher computes streaming BLAKE3 content digests for manifest
// records. Files are hashed in bounded chunks and are never loaded into
// memory whole.
package hasher

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// bufferSize is the chunk size used when streaming file content through
// the hash.
const bufferSize = 32 * 1024

// EmptyDigest is the BLAKE3 digest of zero-length input, which every
// empty file yields.
const EmptyDigest = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"

// Sum streams r through BLAKE3 and returns the lowercase hex digest and
// the number of bytes read.
func Sum(r io.Reader) (string, int64, error) {
	h := blake3.New()
	buf := make([]byte, bufferSize)

	n, err := io.CopyBuffer(h, r, buf)
	if err != nil {
		return "", 0, err
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// SumFile opens the file at path and returns its content digest and size.
// Errors are returned to the caller for per-file handling; they are never
// fatal to a larger run.
func SumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	digest, size, err := Sum(f)
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return digest, size, nil
}
