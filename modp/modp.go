package modp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/bogacyigitbasi/sigma-protocol/group"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// primeRounds is the number of Miller-Rabin rounds used to accept a modulus.
const primeRounds = 20

// Exp returns base^exp mod m using square-and-multiply, processing the
// exponent bits from the least significant end. Both the accumulator and
// the running square are reduced modulo m after every multiplication, so
// intermediate values never exceed m^2.
//
// exp must be non-negative and m must be positive.
func Exp(base, exp, m *big.Int) *big.Int {
	if exp.Sign() < 0 {
		panic("modp: negative exponent")
	}
	result := new(big.Int).Mod(one, m)
	b := new(big.Int).Mod(base, m)
	for i := 0; i < exp.BitLen(); i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		b.Mul(b, b)
		b.Mod(b, m)
	}
	return result
}

// Group is the cyclic subgroup of Z_p^* generated by g, with scalars
// taken modulo the declared order. It implements [group.Group].
//
// A Group is immutable after [New] returns and is safe for concurrent use.
type Group struct {
	p     *big.Int
	g     *big.Int
	order *big.Int

	scalarLen int
	pointLen  int
}

// New validates the parameters and returns the group they describe.
//
// p must be an odd prime greater than 2 and g must lie in [1, p). order is
// the exponent modulus; nil selects p-1. A non-nil order must be positive,
// divide p-1, and satisfy g^order = 1 (mod p).
//
// Errors wrap [group.ErrInvalidModulus], [group.ErrInvalidOrder] or
// [group.ErrInvalidGenerator].
func New(p, g, order *big.Int) (*Group, error) {
	if p == nil || p.Cmp(two) <= 0 || p.Bit(0) == 0 || !p.ProbablyPrime(primeRounds) {
		return nil, group.ErrInvalidModulus
	}
	pMinus1 := new(big.Int).Sub(p, one)
	if order == nil {
		order = pMinus1
	}
	if order.Sign() <= 0 {
		return nil, group.ErrInvalidOrder
	}
	if new(big.Int).Mod(pMinus1, order).Sign() != 0 {
		return nil, fmt.Errorf("%w: %s does not divide p-1", group.ErrInvalidOrder, order)
	}
	if g == nil || g.Sign() <= 0 || g.Cmp(p) >= 0 {
		return nil, group.ErrInvalidGenerator
	}
	if Exp(g, order, p).Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: generator order does not divide %s", group.ErrInvalidGenerator, order)
	}

	return &Group{
		p:         new(big.Int).Set(p),
		g:         new(big.Int).Set(g),
		order:     new(big.Int).Set(order),
		scalarLen: (order.BitLen() + 7) / 8,
		pointLen:  (p.BitLen() + 7) / 8,
	}, nil
}

// GenerateParams samples a safe prime p = 2q+1 of the given bit length and
// returns the order-q subgroup of Z_p^* generated by 4.
func GenerateParams(r io.Reader, bits int) (*Group, error) {
	if bits < 8 {
		return nil, fmt.Errorf("%w: modulus must have at least 8 bits", group.ErrInvalidParameters)
	}
	for {
		q, err := rand.Prime(r, bits-1)
		if err != nil {
			return nil, fmt.Errorf("generating prime: %w", err)
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if p.BitLen() != bits || !p.ProbablyPrime(primeRounds) {
			continue
		}
		// 4 = 2^2 is a quadratic residue different from 1, so it has order q.
		return New(p, big.NewInt(4), q)
	}
}

// Name returns "modp".
func (G *Group) Name() string {
	return "modp"
}

// Modulus returns a copy of p.
func (G *Group) Modulus() *big.Int {
	return new(big.Int).Set(G.p)
}

// Order returns a copy of the exponent modulus.
func (G *Group) Order() *big.Int {
	return new(big.Int).Set(G.order)
}

// ScalarLen returns the byte length of the order.
func (G *Group) ScalarLen() int {
	return G.scalarLen
}

// PointLen returns the byte length of p.
func (G *Group) PointLen() int {
	return G.pointLen
}

// NewScalar returns a new zero scalar.
func (G *Group) NewScalar() group.Scalar {
	return &Scalar{inner: new(big.Int), grp: G}
}

// NewPoint returns a new identity element (the residue 1).
func (G *Group) NewPoint() group.Point {
	return &Point{inner: big.NewInt(1), grp: G}
}

// Generator returns g.
func (G *Group) Generator() group.Point {
	return &Point{inner: new(big.Int).Set(G.g), grp: G}
}

// Element returns the group element with value v, checking that it lies in
// [1, p) and belongs to the subgroup of the declared order.
func (G *Group) Element(v *big.Int) (group.Point, error) {
	if v == nil || v.Sign() <= 0 || v.Cmp(G.p) >= 0 {
		return nil, fmt.Errorf("%w: element out of range", group.ErrInvalidEncoding)
	}
	if Exp(v, G.order, G.p).Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: element not in subgroup", group.ErrInvalidEncoding)
	}
	return &Point{inner: new(big.Int).Set(v), grp: G}, nil
}

// RandomScalar returns a scalar uniformly distributed in [0, order).
func (G *Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	return group.UniformScalar(G, r)
}

// Scalar is an integer modulo the group order. It implements [group.Scalar].
type Scalar struct {
	inner *big.Int
	grp   *Group
}

func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, s.grp.order)
}

// Add sets s to a + b (mod order) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod order) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod order) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod order) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod order) and returns s.
// The order p-1 is composite, so unlike a prime-order group, non-zero
// scalars sharing a factor with the order have no inverse either.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("cannot invert zero scalar")
	}
	inv := new(big.Int).ModInverse(aScalar.inner, s.grp.order)
	if inv == nil {
		return nil, fmt.Errorf("scalar %s is not invertible modulo %s", aScalar.inner, s.grp.order)
	}
	s.inner.Set(inv)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// SetBigInt sets s to v mod order and returns s.
func (s *Scalar) SetBigInt(v *big.Int) group.Scalar {
	s.inner.Set(v)
	s.reduce()
	return s
}

// BigInt returns a copy of the scalar value.
func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).Set(s.inner)
}

// Bytes returns the scalar as a big-endian value padded to ScalarLen bytes.
func (s *Scalar) Bytes() []byte {
	return group.PadBytes(s.inner, s.grp.scalarLen)
}

// SetBytes sets s from a big-endian encoding of exactly ScalarLen bytes.
// Values not below the order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != s.grp.scalarLen {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d", group.ErrInvalidEncoding, s.grp.scalarLen, len(data))
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(s.grp.order) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", group.ErrInvalidEncoding)
	}
	s.inner.Set(v)
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(b.(*Scalar).inner) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// String returns the decimal value of s.
func (s *Scalar) String() string {
	return s.inner.String()
}

// Point is a residue in [1, p) belonging to the subgroup. It implements
// [group.Point] with the group operation written additively: Add multiplies
// modulo p and ScalarMult exponentiates.
type Point struct {
	inner *big.Int
	grp   *Group
}

// Add sets q to a * b mod p and returns q.
func (q *Point) Add(a, b group.Point) group.Point {
	q.inner.Mul(a.(*Point).inner, b.(*Point).inner)
	q.inner.Mod(q.inner, q.grp.p)
	return q
}

// Sub sets q to a * b^(-1) mod p and returns q.
func (q *Point) Sub(a, b group.Point) group.Point {
	inv := new(big.Int).ModInverse(b.(*Point).inner, q.grp.p)
	q.inner.Mul(a.(*Point).inner, inv)
	q.inner.Mod(q.inner, q.grp.p)
	return q
}

// Negate sets q to a^(-1) mod p and returns q.
func (q *Point) Negate(a group.Point) group.Point {
	q.inner.ModInverse(a.(*Point).inner, q.grp.p)
	return q
}

// ScalarMult sets q to b^s mod p and returns q.
func (q *Point) ScalarMult(s group.Scalar, b group.Point) group.Point {
	q.inner.Set(Exp(b.(*Point).inner, s.(*Scalar).inner, q.grp.p))
	return q
}

// Set copies the value of a into q and returns q.
func (q *Point) Set(a group.Point) group.Point {
	q.inner.Set(a.(*Point).inner)
	return q
}

// BigInt returns a copy of the residue.
func (q *Point) BigInt() *big.Int {
	return new(big.Int).Set(q.inner)
}

// Bytes returns the residue as a big-endian value padded to PointLen bytes.
func (q *Point) Bytes() []byte {
	return group.PadBytes(q.inner, q.grp.pointLen)
}

// SetBytes sets q from a big-endian encoding of exactly PointLen bytes.
// The value must lie in [1, p) and belong to the subgroup.
func (q *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != q.grp.pointLen {
		return nil, fmt.Errorf("%w: element must be %d bytes, got %d", group.ErrInvalidEncoding, q.grp.pointLen, len(data))
	}
	e, err := q.grp.Element(new(big.Int).SetBytes(data))
	if err != nil {
		return nil, err
	}
	q.inner.Set(e.(*Point).inner)
	return q, nil
}

// Equal reports whether q and b are the same residue.
func (q *Point) Equal(b group.Point) bool {
	return q.inner.Cmp(b.(*Point).inner) == 0
}

// IsIdentity reports whether q is 1.
func (q *Point) IsIdentity() bool {
	return q.inner.Cmp(one) == 0
}

// String returns the decimal value of q.
func (q *Point) String() string {
	return q.inner.String()
}
