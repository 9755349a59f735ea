package challenge

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hasher defines the hash function used to derive Fiat-Shamir challenges.
// Implementations concatenate their inputs and return a fixed-size digest.
type Hasher interface {
	// Name returns the identifier used in configuration files.
	Name() string
	// Size returns the digest length in bytes.
	Size() int
	// Sum hashes the concatenation of data.
	Sum(data ...[]byte) []byte
}

func sum(h hash.Hash, prefix string, data ...[]byte) []byte {
	h.Write([]byte(prefix))
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// SHA256Hasher implements Hasher using SHA-256.
// This is the default hasher for general use.
type SHA256Hasher struct{}

// Name implements Hasher.Name.
func (h *SHA256Hasher) Name() string { return "sha256" }

// Size implements Hasher.Size.
func (h *SHA256Hasher) Size() int { return sha256.Size }

// Sum implements Hasher.Sum.
func (h *SHA256Hasher) Sum(data ...[]byte) []byte {
	return sum(sha256.New(), "", data...)
}

// Blake2bHasher implements Hasher using BLAKE2b-256 with an optional
// domain separation prefix.
//
// Domain separation format: prefix + input
type Blake2bHasher struct {
	// Prefix is the domain separation prefix. Empty by default.
	Prefix string
}

// Name implements Hasher.Name.
func (h *Blake2bHasher) Name() string { return "blake2b" }

// Size implements Hasher.Size.
func (h *Blake2bHasher) Size() int { return blake2b.Size256 }

// Sum implements Hasher.Sum.
func (h *Blake2bHasher) Sum(data ...[]byte) []byte {
	hasher, _ := blake2b.New256(nil)
	return sum(hasher, h.Prefix, data...)
}

// SHA3Hasher implements Hasher using SHA3-256.
type SHA3Hasher struct{}

// Name implements Hasher.Name.
func (h *SHA3Hasher) Name() string { return "sha3-256" }

// Size implements Hasher.Size.
func (h *SHA3Hasher) Size() int { return 32 }

// Sum implements Hasher.Sum.
func (h *SHA3Hasher) Sum(data ...[]byte) []byte {
	return sum(sha3.New256(), "", data...)
}

// DefaultHasher returns the SHA-256 hasher.
func DefaultHasher() Hasher {
	return &SHA256Hasher{}
}

// HasherByName returns the hasher registered under name. The empty name
// selects the default.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", "sha256", "sha-256":
		return &SHA256Hasher{}, nil
	case "blake2b", "blake2b-256":
		return &Blake2bHasher{}, nil
	case "sha3", "sha3-256":
		return &SHA3Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash function %q", name)
	}
}
