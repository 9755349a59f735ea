package sigma

import (
	"errors"
	"fmt"
	"io"

	"github.com/bogacyigitbasi/sigma-protocol/group"
)

// ErrNonceReuse is returned when a commitment's randomness would be used
// for a second response. Two responses to distinct challenges over the
// same commitment reveal the secret, so the operation fails closed.
var ErrNonceReuse = errors.New("sigma: commitment randomness already used")

// KeyPair is a secret scalar and the public element derived from it.
type KeyPair struct {
	Secret group.Scalar // the witness x
	Public group.Point  // y = x*G
}

// DeriveKeyPair computes the public element for an externally chosen
// secret. It is a pure function of its inputs.
func DeriveKeyPair(g group.Group, secret group.Scalar) (*KeyPair, error) {
	if secret == nil {
		return nil, errors.New("sigma: nil secret")
	}
	x := g.NewScalar().Set(secret)
	return &KeyPair{
		Secret: x,
		Public: g.NewPoint().ScalarMult(x, g.Generator()),
	}, nil
}

// GenerateKeyPair samples a secret uniformly from [0, order) and derives
// its key pair.
func GenerateKeyPair(g group.Group, r io.Reader) (*KeyPair, error) {
	x, err := g.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to sample secret: %w", err)
	}
	return DeriveKeyPair(g, x)
}

// Verify reports whether response is an accepting answer to challenge for
// the given commitment and public key:
//
//	response*G == commitment + challenge*public
//
// Inputs are re-decoded into g first, so elements of another group, nil
// values and non-canonical encodings are rejected. Verify never returns an
// error; a false result is the definitive outcome.
func Verify(g group.Group, commitment, public group.Point, response, challenge group.Scalar) bool {
	if commitment == nil || public == nil || response == nil || challenge == nil {
		return false
	}
	t, err := g.NewPoint().SetBytes(commitment.Bytes())
	if err != nil {
		return false
	}
	y, err := g.NewPoint().SetBytes(public.Bytes())
	if err != nil {
		return false
	}
	z, err := g.NewScalar().SetBytes(response.Bytes())
	if err != nil {
		return false
	}
	c, err := g.NewScalar().SetBytes(challenge.Bytes())
	if err != nil {
		return false
	}

	// Check: z*G == T + c*Y
	lhs := g.NewPoint().ScalarMult(z, g.Generator())

	cY := g.NewPoint().ScalarMult(c, y)
	rhs := g.NewPoint().Add(t, cY)

	return lhs.Equal(rhs)
}

// ExtractWitness recovers the secret from two accepting responses z1, z2 to
// distinct challenges c1, c2 over the same commitment:
//
//	x = (z1 - z2) / (c1 - c2)
//
// This is the special-soundness extractor. It is also exactly what an
// observer can do when a prover reuses commitment randomness.
func ExtractWitness(g group.Group, c1, z1, c2, z2 group.Scalar) (group.Scalar, error) {
	dc := g.NewScalar().Sub(c1, c2)
	if dc.IsZero() {
		return nil, errors.New("sigma: challenges must differ")
	}
	inv, err := g.NewScalar().Invert(dc)
	if err != nil {
		return nil, fmt.Errorf("sigma: challenge difference not invertible: %w", err)
	}
	dz := g.NewScalar().Sub(z1, z2)
	return g.NewScalar().Mul(dz, inv), nil
}
