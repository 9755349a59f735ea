package sigma

import (
	"errors"
	"io"
	"sync"

	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/group"
)

// Verifier checks proofs about a single public key.
//
// In interactive mode the verifier issues a challenge with IssueChallenge
// and later checks the response against it with Verify. The stored
// challenge is cleared by Verify, so each issued challenge answers exactly
// one commitment.
type Verifier struct {
	mu        sync.Mutex
	group     group.Group
	public    group.Point
	challenge group.Scalar
}

// NewVerifier returns a verifier for public.
func NewVerifier(g group.Group, public group.Point) (*Verifier, error) {
	if public == nil {
		return nil, errors.New("sigma: nil public key")
	}
	y, err := g.NewPoint().SetBytes(public.Bytes())
	if err != nil {
		return nil, err
	}
	return &Verifier{group: g, public: y}, nil
}

// PublicKey returns a copy of the public key being verified.
func (v *Verifier) PublicKey() group.Point {
	return v.group.NewPoint().Set(v.public)
}

// IssueChallenge draws a random challenge in [1, order), stores it and
// returns a copy. Issuing again replaces the stored challenge.
func (v *Verifier) IssueChallenge(r io.Reader) (group.Scalar, error) {
	c, err := challenge.Random(v.group, r)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.challenge = c
	v.mu.Unlock()
	return v.group.NewScalar().Set(c), nil
}

// Challenge returns a copy of the stored challenge, or nil if none is
// outstanding.
func (v *Verifier) Challenge() group.Scalar {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.challenge == nil {
		return nil
	}
	return v.group.NewScalar().Set(v.challenge)
}

// Verify checks response against the stored challenge and clears it.
// It returns false if no challenge is outstanding.
func (v *Verifier) Verify(commitment group.Point, response group.Scalar) bool {
	v.mu.Lock()
	c := v.challenge
	v.challenge = nil
	v.mu.Unlock()

	if c == nil {
		return false
	}
	return Verify(v.group, commitment, v.public, response, c)
}

// VerifyProof checks a non-interactive proof, recomputing its challenge
// with gen. A nil gen selects Fiat-Shamir over SHA-256.
func (v *Verifier) VerifyProof(proof *Proof, gen challenge.Generator) bool {
	return VerifyProof(v.group, gen, v.public, proof)
}

// VerifyProof checks a non-interactive proof against public. The
// challenge is recomputed from the proof's commitment and public, so
// nothing but the proof and the public key is needed.
func VerifyProof(g group.Group, gen challenge.Generator, public group.Point, proof *Proof) bool {
	if proof == nil || proof.Commitment == nil || public == nil {
		return false
	}
	if gen == nil {
		gen = &challenge.FiatShamirGenerator{}
	}
	if gen.Mode() == challenge.Interactive {
		return false
	}
	t, err := g.NewPoint().SetBytes(proof.Commitment.Bytes())
	if err != nil {
		return false
	}
	y, err := g.NewPoint().SetBytes(public.Bytes())
	if err != nil {
		return false
	}
	c, err := gen.Challenge(g, t, y)
	if err != nil {
		return false
	}
	return Verify(g, t, y, proof.Response, c)
}
