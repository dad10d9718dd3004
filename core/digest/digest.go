// Package digest computes content fingerprints of documents. Every digest
// carries both a SHA-256 and a BLAKE3 hash, hex encoded.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"io"

	"github.com/zeebo/blake3"
)

// ErrInvalidHash is returned when a hash string is not 64 lowercase hex digits.
var ErrInvalidHash = errors.New("invalid hash format")

// HashResult contains both SHA-256 and BLAKE3 hashes of some content.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
	// Size is the number of bytes hashed.
	Size int64 `json:"size"`
}

// Hasher is an io.Writer that hashes everything written to it.
type Hasher struct {
	sha  hash.Hash
	b3   *blake3.Hasher
	w    io.Writer
	size int64
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	h := &Hasher{sha: sha256.New(), b3: blake3.New()}
	h.w = io.MultiWriter(h.sha, h.b3)
	return h
}

func (h *Hasher) Write(p []byte) (int, error) {
	n, err := h.w.Write(p)
	h.size += int64(n)
	return n, err
}

// Sum returns the hashes of the content written so far.
func (h *Hasher) Sum() *HashResult {
	return &HashResult{
		SHA256: hex.EncodeToString(h.sha.Sum(nil)),
		BLAKE3: hex.EncodeToString(h.b3.Sum(nil)),
		Size:   h.size,
	}
}

// Hash returns the hashes of data.
func Hash(data []byte) *HashResult {
	h := NewHasher()
	h.Write(data)
	return h.Sum()
}

// HashReader hashes everything read from r.
func HashReader(r io.Reader) (*HashResult, error) {
	h := NewHasher()
	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}
	return h.Sum(), nil
}

// Blake3Hash computes the BLAKE3 hash of the given data.
func Blake3Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Equal reports whether two results describe the same content.
func (r *HashResult) Equal(other *HashResult) bool {
	return r.SHA256 == other.SHA256 && r.BLAKE3 == other.BLAKE3
}

// Validate checks that s is a well-formed hex hash.
func Validate(s string) error {
	if !isValidHash(s) {
		return ErrInvalidHash
	}
	return nil
}

func isValidHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
