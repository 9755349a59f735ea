package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bogacyigitbasi/sigma-protocol/log"
	"github.com/bogacyigitbasi/sigma-protocol/sigma"
)

// Prove produces a non-interactive proof with p. A nil gen selects
// Fiat-Shamir over SHA-256.
func Prove(p *sigma.Prover, gen challenge.Generator, opts ...Option) (*sigma.Proof, error) {
	s, err := NewNonInteractive(p, gen, opts...)
	if err != nil {
		return nil, err
	}
	return s.Prove()
}

// NonInteractive is a single proof attempt with a locally derived
// challenge. Prove moves it from Init straight to Responded; Verify, given
// only the proof and the public key, moves it to Verified. Steps called out
// of order return [ErrInvalidTransition].
type NonInteractive struct {
	mu     sync.Mutex
	prover *sigma.Prover
	gen    challenge.Generator
	opts   []Option
	o      *options
	log    log.Logger

	state    State
	proof    *sigma.Proof
	accepted bool
}

// NewNonInteractive prepares a proof attempt for p. A nil gen selects
// Fiat-Shamir over SHA-256; interactive generators are refused.
func NewNonInteractive(p *sigma.Prover, gen challenge.Generator, opts ...Option) (*NonInteractive, error) {
	if p == nil {
		return nil, errors.New("session: prover is required")
	}
	if gen == nil {
		gen = &challenge.FiatShamirGenerator{}
	}
	if gen.Mode() == challenge.Interactive {
		return nil, errors.New("session: non-interactive proofs need a derived challenge")
	}
	o := buildOptions(opts)
	return &NonInteractive{
		prover: p,
		gen:    gen,
		opts:   opts,
		o:      o,
		log:    o.log.Named("session").With("backend", p.Group().Name(), "mode", gen.Mode()),
	}, nil
}

// State returns the current state.
func (s *NonInteractive) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Prove commits, derives the challenge and responds in one step.
func (s *NonInteractive) Prove() (*sigma.Proof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := transition(s.state, Init); err != nil {
		return nil, err
	}

	proof, err := s.prover.Prove(s.o.rand, s.gen)
	if err != nil {
		s.log.Infow("proof failed", "err", err)
		return nil, err
	}
	s.proof = proof
	s.state = Responded
	s.log.Debugw("proof produced", "state", s.state)
	return copyProof(s.prover.Group(), proof), nil
}

// Verify checks the proof against public, recomputing the challenge. The
// result is final. A replay guard error ends the session as rejected and
// is returned.
func (s *NonInteractive) Verify(public group.Point) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := transition(s.state, Responded); err != nil {
		return false, err
	}

	err := NewVerifier(s.prover.Group(), s.gen, s.opts...).Verify(public, s.proof)
	s.state = Verified
	s.accepted = err == nil
	if errors.Is(err, ErrVerificationFailed) {
		return false, nil
	}
	return s.accepted, err
}

// Proof returns a copy of the produced proof, or nil before Prove.
func (s *NonInteractive) Proof() *sigma.Proof {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proof == nil {
		return nil
	}
	return copyProof(s.prover.Group(), s.proof)
}

func copyProof(g group.Group, p *sigma.Proof) *sigma.Proof {
	return &sigma.Proof{
		Commitment: g.NewPoint().Set(p.Commitment),
		Response:   g.NewScalar().Set(p.Response),
	}
}

// Verifier checks non-interactive proofs, optionally refusing replays.
type Verifier struct {
	group group.Group
	gen   challenge.Generator
	guard *ReplayGuard
	log   log.Logger
}

// NewVerifier returns a verifier for proofs made with gen. A nil gen
// selects Fiat-Shamir over SHA-256.
func NewVerifier(g group.Group, gen challenge.Generator, opts ...Option) *Verifier {
	o := buildOptions(opts)
	if gen == nil {
		gen = &challenge.FiatShamirGenerator{}
	}
	return &Verifier{
		group: g,
		gen:   gen,
		guard: o.guard,
		log:   o.log.Named("session").With("backend", g.Name(), "mode", gen.Mode()),
	}
}

// Verify checks proof against public. It returns nil if the proof is
// valid, [ErrVerificationFailed] if it is not, and a replay error if a
// guard is configured and has seen the commitment before.
func (v *Verifier) Verify(public group.Point, proof *sigma.Proof) error {
	if !sigma.VerifyProof(v.group, v.gen, public, proof) {
		v.log.Infow("proof rejected")
		return ErrVerificationFailed
	}
	if v.guard != nil {
		c, err := v.gen.Challenge(v.group, proof.Commitment, public)
		if err != nil {
			return fmt.Errorf("failed to recompute challenge: %w", err)
		}
		if err := v.guard.Observe(public, proof.Commitment, c); err != nil {
			v.log.Infow("proof rejected", "err", err)
			return err
		}
	}
	v.log.Debugw("proof accepted")
	return nil
}
