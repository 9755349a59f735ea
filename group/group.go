package group

import (
	"io"
	"math/big"
)

// Scalar represents an element of the scalar ring associated with a
// cryptographic group. Scalars are integers modulo the group order and
// are used as exponents in scalar multiplication.
//
// All arithmetic methods use a mutable receiver pattern: they modify
// the receiver, store the result in it, and return it. This allows for
// efficient method chaining while minimizing memory allocations.
//
// Implementations must ensure all operations produce results in the
// valid range [0, order).
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a has no inverse modulo the order.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// SetBigInt sets the receiver to v mod order and returns it.
	// Any value, including negative and oversized ones, is accepted.
	SetBigInt(v *big.Int) Scalar
	// BigInt returns the value of the receiver as a new big.Int in [0, order).
	BigInt() *big.Int
	// Bytes returns the canonical fixed-width byte representation of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from its canonical encoding and returns it.
	// Returns an error if the data has the wrong length or is out of range.
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point represents an element of a cyclic group: a point on an elliptic
// curve, or a residue modulo a prime.
//
// The group operation is always written additively, whatever the
// underlying structure: for a multiplicative group Add is modular
// multiplication and ScalarMult is modular exponentiation.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern
// for efficiency.
//
// The identity element is the neutral element of Add:
// P + Identity = P for all points P.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical fixed-width byte representation of the point.
	Bytes() []byte
	// SetBytes sets the receiver from a byte slice and returns it.
	// Returns an error if the data is not the encoding of a group element.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group defines a prime-order (or known-order) cyclic group suitable for
// proofs of knowledge of a discrete logarithm. It provides factory methods
// for creating scalars and points, access to the group's generator, and
// uniform random scalar generation.
//
// A Group value is immutable once constructed and may be shared between
// goroutines and between prover and verifier.
//
// Example usage:
//
//	g := &bjj.BJJ{}  // or any other Group implementation
//	scalar, _ := g.RandomScalar(rand.Reader)
//	point := g.NewPoint().ScalarMult(scalar, g.Generator())
type Group interface {
	// Name returns a short identifier of the group, e.g. "bjj".
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a scalar uniformly distributed in [0, order).
	RandomScalar(r io.Reader) (Scalar, error)
	// Order returns the order of the scalar ring as a new big.Int.
	Order() *big.Int
	// ScalarLen returns the length of the canonical scalar encoding.
	ScalarLen() int
	// PointLen returns the length of the canonical point encoding.
	PointLen() int
}
