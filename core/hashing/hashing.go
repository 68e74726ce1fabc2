// Package hashing computes content digests for corpus documents.
// Every document carried in a snapshot is recorded with both a SHA-256
// and a BLAKE3 digest so archives written today stay verifiable if one
// algorithm has to be retired later.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/zeebo/blake3"
)

// hexPattern matches a lowercase 256-bit hex digest (64 characters).
var hexPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Digest holds both hashes of a single blob.
type Digest struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Sum computes both digests of the given data.
func Sum(data []byte) Digest {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return Digest{
		SHA256: hex.EncodeToString(s[:]),
		BLAKE3: hex.EncodeToString(b[:]),
	}
}

// SumReader computes both digests by streaming from r, returning the
// digests and the number of bytes read.
func SumReader(r io.Reader) (Digest, int64, error) {
	sh := sha256.New()
	bh := blake3.New()
	n, err := io.Copy(io.MultiWriter(sh, bh), r)
	if err != nil {
		return Digest{}, n, fmt.Errorf("hashing stream: %w", err)
	}
	return Digest{
		SHA256: hex.EncodeToString(sh.Sum(nil)),
		BLAKE3: hex.EncodeToString(bh.Sum(nil)),
	}, n, nil
}

// SumFile computes both digests of the file at path.
func SumFile(path string) (Digest, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return SumReader(f)
}

// SHA256Hash computes the SHA-256 hash of the given data.
func SHA256Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// IsValid reports whether s looks like a lowercase 256-bit hex digest.
func IsValid(s string) bool {
	return hexPattern.MatchString(s)
}

// Verify recomputes the digests of data and compares them against d.
// It returns nil when both match and a descriptive error naming the
// first algorithm that diverged otherwise.
func (d Digest) Verify(data []byte) error {
	got := Sum(data)
	if d.SHA256 != got.SHA256 {
		return fmt.Errorf("sha256 mismatch: want %s, got %s", d.SHA256, got.SHA256)
	}
	if d.BLAKE3 != got.BLAKE3 {
		return fmt.Errorf("blake3 mismatch: want %s, got %s", d.BLAKE3, got.BLAKE3)
	}
	return nil
}

// Short returns an abbreviated form of the SHA-256 digest for log lines.
func (d Digest) Short() string {
	if len(d.SHA256) < 12 {
		return d.SHA256
	}
	return d.SHA256[:12]
}
