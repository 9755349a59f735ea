package sigma

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/group"
)

// Commitment is the first message of the protocol together with the
// one-time randomness behind it.
//
// The randomness never leaves the Commitment. It is consumed by the first
// response and zeroed afterwards; every later attempt to respond fails with
// [ErrNonceReuse]. A Commitment is safe for concurrent use.
type Commitment struct {
	mu       sync.Mutex
	group    group.Group
	owner    *Prover
	element  group.Point  // T = r*G
	nonce    group.Scalar // r
	consumed bool
}

// Commit samples fresh randomness r uniformly from [0, order) and returns
// the commitment T = r*G.
func Commit(g group.Group, r io.Reader) (*Commitment, error) {
	nonce, err := g.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to sample commitment randomness: %w", err)
	}
	return &Commitment{
		group:   g,
		element: g.NewPoint().ScalarMult(nonce, g.Generator()),
		nonce:   nonce,
	}, nil
}

// Element returns a copy of the public commitment T.
func (c *Commitment) Element() group.Point {
	return c.group.NewPoint().Set(c.element)
}

// IsConsumed reports whether the commitment has already been answered.
func (c *Commitment) IsConsumed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consumed
}

// Respond computes r + secret*challenge (mod order) and consumes the
// commitment. The arithmetic runs in the commitment's group; g, secret and
// challenge must belong to it. A mismatched call fails without consuming
// the commitment.
func Respond(g group.Group, c *Commitment, secret, ch group.Scalar) (group.Scalar, error) {
	if c == nil || secret == nil || ch == nil {
		return nil, errors.New("sigma: nil commitment, secret or challenge")
	}
	if g == nil || g.Name() != c.group.Name() || g.Order().Cmp(c.group.Order()) != 0 {
		return nil, errors.New("sigma: commitment belongs to a different group")
	}
	x, err := c.group.NewScalar().SetBytes(secret.Bytes())
	if err != nil {
		return nil, fmt.Errorf("sigma: secret not in the commitment's group: %w", err)
	}
	e, err := c.group.NewScalar().SetBytes(ch.Bytes())
	if err != nil {
		return nil, fmt.Errorf("sigma: challenge not in the commitment's group: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.consumed {
		return nil, ErrNonceReuse
	}

	// Mark as consumed immediately, before any operations that might fail
	c.consumed = true
	defer c.zeroNonce()

	xc := c.group.NewScalar().Mul(x, e)       // x * c
	z := c.group.NewScalar().Add(c.nonce, xc) // r + x * c
	return z, nil
}

// zeroNonce overwrites the randomness and drops the reference.
// This is a best-effort cleanup; Go doesn't guarantee memory zeroing.
func (c *Commitment) zeroNonce() {
	if c.nonce == nil {
		return
	}
	c.nonce.Set(c.group.NewScalar())
	c.nonce = nil
}

// Prover holds a key pair and answers challenges about it. Create instances
// using [NewProver]. A single Prover may run many proof attempts
// concurrently; each attempt owns its [Commitment].
type Prover struct {
	group group.Group
	key   *KeyPair
}

// NewProver returns a prover for a fully formed key pair. The public
// element must match the secret.
func NewProver(g group.Group, kp *KeyPair) (*Prover, error) {
	if kp == nil || kp.Secret == nil || kp.Public == nil {
		return nil, errors.New("sigma: incomplete key pair")
	}
	want := g.NewPoint().ScalarMult(kp.Secret, g.Generator())
	if !want.Equal(kp.Public) {
		return nil, errors.New("sigma: public key does not match secret")
	}
	return &Prover{group: g, key: kp}, nil
}

// Group returns the prover's group.
func (p *Prover) Group() group.Group {
	return p.group
}

// PublicKey returns a copy of the prover's public element.
func (p *Prover) PublicKey() group.Point {
	return p.group.NewPoint().Set(p.key.Public)
}

// Commit starts a proof attempt with fresh randomness.
func (p *Prover) Commit(r io.Reader) (*Commitment, error) {
	c, err := Commit(p.group, r)
	if err != nil {
		return nil, err
	}
	c.owner = p
	return c, nil
}

// Respond answers ch for a commitment produced by this prover.
func (p *Prover) Respond(c *Commitment, ch group.Scalar) (group.Scalar, error) {
	if c == nil {
		return nil, errors.New("sigma: nil commitment")
	}
	if c.owner != p {
		return nil, errors.New("sigma: commitment was not produced by this prover")
	}
	return Respond(p.group, c, p.key.Secret, ch)
}

// Prove produces a non-interactive proof, deriving the challenge locally
// with gen. Interactive generators are refused: a challenge the prover
// draws itself proves nothing.
func (p *Prover) Prove(r io.Reader, gen challenge.Generator) (*Proof, error) {
	if gen == nil {
		gen = &challenge.FiatShamirGenerator{}
	}
	if gen.Mode() == challenge.Interactive {
		return nil, errors.New("sigma: non-interactive proofs need a derived challenge")
	}

	c, err := p.Commit(r)
	if err != nil {
		return nil, err
	}
	ch, err := gen.Challenge(p.group, c.element, p.key.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to derive challenge: %w", err)
	}
	z, err := p.Respond(c, ch)
	if err != nil {
		return nil, err
	}
	return &Proof{Commitment: c.Element(), Response: z}, nil
}
