// Package ristretto provides a ristretto255 implementation of the
// [group.Group] interface on top of go-ristretto.
//
// ristretto255 is a prime-order group built from Curve25519. Unlike raw
// Edwards points, every valid encoding denotes an element of the
// prime-order group, so no cofactor check is required when decoding.
//
// Encodings follow the library: points are 32-byte ristretto encodings and
// scalars are 32-byte little-endian integers below the group order.
package ristretto

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bwesterb/go-ristretto"
)

const encodingLen = 32

// groupOrder is l = 2^252 + 27742317777372353535851937790883648493.
var groupOrder *big.Int

func init() {
	groupOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out
}

// Scalar is an integer modulo l. It implements [group.Scalar].
type Scalar struct {
	inner ristretto.Scalar
}

func newScalar() *Scalar {
	var s Scalar
	s.inner.SetZero()
	return &s
}

// Add sets s to a + b (mod l) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b (mod l) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b (mod l) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a (mod l) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) (mod l) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.Inverse(&a.(*Scalar).inner)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner = a.(*Scalar).inner
	return s
}

// SetBigInt sets s to v (mod l) and returns s.
func (s *Scalar) SetBigInt(v *big.Int) group.Scalar {
	r := new(big.Int).Mod(v, groupOrder)
	var buf [encodingLen]byte
	copy(buf[:], reverse(group.PadBytes(r, encodingLen)))
	s.inner.SetBytes(&buf)
	return s
}

// BigInt returns the scalar value as a new big.Int.
func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(reverse(s.inner.Bytes()))
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes sets s from a 32-byte little-endian encoding below l.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != encodingLen {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d", group.ErrInvalidEncoding, encodingLen, len(data))
	}
	if new(big.Int).SetBytes(reverse(data)).Cmp(groupOrder) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", group.ErrInvalidEncoding)
	}
	var buf [encodingLen]byte
	copy(buf[:], data)
	s.inner.SetBytes(&buf)
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equals(&b.(*Scalar).inner)
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	var zero ristretto.Scalar
	zero.SetZero()
	return s.inner.Equals(&zero)
}

// Point is an element of the ristretto255 group. It implements [group.Point].
type Point struct {
	inner ristretto.Point
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Sub(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(&q.(*Point).inner, &s.(*Scalar).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner = a.(*Point).inner
	return p
}

// Bytes returns the 32-byte ristretto encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes sets p from a 32-byte ristretto encoding.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != encodingLen {
		return nil, fmt.Errorf("%w: point must be %d bytes, got %d", group.ErrInvalidEncoding, encodingLen, len(data))
	}
	var buf [encodingLen]byte
	copy(buf[:], data)
	var q ristretto.Point
	if !q.SetBytes(&buf) {
		return nil, fmt.Errorf("%w: not a ristretto255 encoding", group.ErrInvalidEncoding)
	}
	p.inner = q
	return p, nil
}

// Equal reports whether p and b represent the same group element.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equals(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	var zero ristretto.Point
	zero.SetZero()
	return p.inner.Equals(&zero)
}

// Ristretto implements [group.Group] for ristretto255.
type Ristretto struct{}

// Name returns "ristretto255".
func (g *Ristretto) Name() string {
	return "ristretto255"
}

// NewScalar returns a new zero scalar.
func (g *Ristretto) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new identity point.
func (g *Ristretto) NewPoint() group.Point {
	var p Point
	p.inner.SetZero()
	return &p
}

// Generator returns the ristretto255 base point.
func (g *Ristretto) Generator() group.Point {
	var p Point
	p.inner.SetBase()
	return &p
}

// RandomScalar returns a scalar uniformly distributed in [0, l).
func (g *Ristretto) RandomScalar(r io.Reader) (group.Scalar, error) {
	return group.UniformScalar(g, r)
}

// Order returns l.
func (g *Ristretto) Order() *big.Int {
	return new(big.Int).Set(groupOrder)
}

// ScalarLen returns 32.
func (g *Ristretto) ScalarLen() int {
	return encodingLen
}

// PointLen returns 32.
func (g *Ristretto) PointLen() int {
	return encodingLen
}
