// Package edwards provides the prime-order subgroup of the Ed25519 curve as
// a [group.Group], backed by the kyber edwards25519 suite.
//
// Points are encoded as 32-byte compressed Edwards points and scalars as
// 32-byte little-endian integers below the subgroup order l, matching the
// kyber wire format. The curve has cofactor 8; SetBytes rejects encodings
// of points with a small-order component.
package edwards

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/drand/kyber"
	"github.com/drand/kyber/group/edwards25519"
)

const encodingLen = 32

var (
	suite = edwards25519.NewBlakeSHA256Ed25519()

	// subgroupOrder is l = 2^252 + 27742317777372353535851937790883648493.
	subgroupOrder *big.Int
	// orderMinusOne is l-1 as a kyber scalar, used for subgroup checks.
	orderMinusOne kyber.Scalar
)

func init() {
	subgroupOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
	orderMinusOne = scalarFromBig(new(big.Int).Sub(subgroupOrder, big.NewInt(1)))
}

func littleEndian(v *big.Int) []byte {
	be := group.PadBytes(v, encodingLen)
	le := make([]byte, encodingLen)
	for i := range be {
		le[i] = be[encodingLen-1-i]
	}
	return le
}

func fromLittleEndian(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i := range le {
		be[i] = le[len(le)-1-i]
	}
	return new(big.Int).SetBytes(be)
}

func scalarFromBig(v *big.Int) kyber.Scalar {
	r := new(big.Int).Mod(v, subgroupOrder)
	return suite.Scalar().SetBytes(littleEndian(r))
}

// Scalar is an integer modulo l. It implements [group.Scalar].
type Scalar struct {
	inner kyber.Scalar
}

// Add sets s to a + b (mod l) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b (mod l) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b (mod l) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

// Negate sets s to -a (mod l) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) (mod l) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	s.inner.Inv(a.(*Scalar).inner)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// SetBigInt sets s to v (mod l) and returns s.
func (s *Scalar) SetBigInt(v *big.Int) group.Scalar {
	s.inner.Set(scalarFromBig(v))
	return s
}

// BigInt returns the scalar value as a new big.Int.
func (s *Scalar) BigInt() *big.Int {
	return fromLittleEndian(s.Bytes())
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	// edwards25519 scalars always marshal.
	buf, _ := s.inner.MarshalBinary()
	return buf
}

// SetBytes sets s from a 32-byte little-endian encoding below l.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != encodingLen {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d", group.ErrInvalidEncoding, encodingLen, len(data))
	}
	if fromLittleEndian(data).Cmp(subgroupOrder) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", group.ErrInvalidEncoding)
	}
	s.inner.SetBytes(data)
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(b.(*Scalar).inner)
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(suite.Scalar().Zero())
}

// Point is an element of the Ed25519 prime-order subgroup. It implements
// [group.Point].
type Point struct {
	inner kyber.Point
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Sub(a.(*Point).inner, b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.Mul(s.(*Scalar).inner, q.(*Point).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	// edwards25519 points always marshal.
	buf, _ := p.inner.MarshalBinary()
	return buf
}

// SetBytes sets p from a 32-byte compressed encoding. The point must lie in
// the prime-order subgroup.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != encodingLen {
		return nil, fmt.Errorf("%w: point must be %d bytes, got %d", group.ErrInvalidEncoding, encodingLen, len(data))
	}
	q := suite.Point()
	if err := q.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrInvalidEncoding, err)
	}
	// (l-1)Q + Q is the identity only when Q has no small-order component.
	check := suite.Point().Mul(orderMinusOne, q)
	check.Add(check, q)
	if !check.Equal(suite.Point().Null()) {
		return nil, fmt.Errorf("%w: point not in prime-order subgroup", group.ErrInvalidEncoding)
	}
	p.inner.Set(q)
	return p, nil
}

// Equal reports whether p and b represent the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(b.(*Point).inner)
}

// IsIdentity reports whether p is the neutral element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(suite.Point().Null())
}

// Ed25519 implements [group.Group] for the Ed25519 prime-order subgroup.
type Ed25519 struct{}

// Name returns "ed25519".
func (g *Ed25519) Name() string {
	return "ed25519"
}

// NewScalar returns a new zero scalar.
func (g *Ed25519) NewScalar() group.Scalar {
	return &Scalar{inner: suite.Scalar().Zero()}
}

// NewPoint returns a new identity point.
func (g *Ed25519) NewPoint() group.Point {
	return &Point{inner: suite.Point().Null()}
}

// Generator returns the Ed25519 base point.
func (g *Ed25519) Generator() group.Point {
	return &Point{inner: suite.Point().Base()}
}

// RandomScalar returns a scalar uniformly distributed in [0, l).
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	return group.UniformScalar(g, r)
}

// Order returns l.
func (g *Ed25519) Order() *big.Int {
	return new(big.Int).Set(subgroupOrder)
}

// ScalarLen returns 32.
func (g *Ed25519) ScalarLen() int {
	return encodingLen
}

// PointLen returns 32.
func (g *Ed25519) PointLen() int {
	return encodingLen
}
