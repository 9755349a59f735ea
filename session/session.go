package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bogacyigitbasi/sigma-protocol/log"
	"github.com/bogacyigitbasi/sigma-protocol/sigma"
)

var (
	// ErrInvalidTransition is returned when a step is invoked out of order.
	ErrInvalidTransition = errors.New("session: invalid state transition")

	// ErrVerificationFailed is returned when a proof is rejected.
	ErrVerificationFailed = errors.New("session: proof rejected")
)

// State is the position of a session in the protocol. Non-interactive
// sessions skip Committed and Challenged.
type State int

const (
	Init State = iota
	Committed
	Challenged
	Responded
	Verified
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Committed:
		return "committed"
	case Challenged:
		return "challenged"
	case Responded:
		return "responded"
	case Verified:
		return "verified"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures sessions and session verifiers.
type Option func(*options)

type options struct {
	log   log.Logger
	guard *ReplayGuard
	rand  io.Reader
}

func buildOptions(opts []Option) *options {
	o := &options{rand: rand.Reader}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = log.DefaultLogger()
	}
	return o
}

// WithLogger sets the logger. The default is [log.DefaultLogger].
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithReplayGuard records every verified commitment in g.
func WithReplayGuard(g *ReplayGuard) Option {
	return func(o *options) { o.guard = g }
}

// WithRand sets the entropy source. The default is crypto/rand.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// Interactive runs one three-move exchange between a prover and a
// verifier that live in the same process. Each step must be called in
// order; calling a step out of order returns [ErrInvalidTransition] and
// leaves the session unchanged. A session is single-use: once Verified it
// accepts no further steps.
//
// The challenge lives in the session, not in the verifier, so several
// sessions may share one verifier and interleave their steps.
type Interactive struct {
	mu       sync.Mutex
	prover   *sigma.Prover
	verifier *sigma.Verifier
	opts     *options
	log      log.Logger

	state      State
	commitment *sigma.Commitment
	challenge  group.Scalar
	response   group.Scalar
	accepted   bool
}

// NewInteractive pairs a prover and a verifier over the same group.
func NewInteractive(p *sigma.Prover, v *sigma.Verifier, opts ...Option) (*Interactive, error) {
	if p == nil || v == nil {
		return nil, errors.New("session: prover and verifier are required")
	}
	o := buildOptions(opts)
	return &Interactive{
		prover:   p,
		verifier: v,
		opts:     o,
		log:      o.log.Named("session").With("backend", p.Group().Name()),
	}, nil
}

// State returns the current state.
func (s *Interactive) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Interactive) expect(want State) error {
	return transition(s.state, want)
}

func transition(have, want State) error {
	if have != want {
		return fmt.Errorf("%w: in state %s, need %s", ErrInvalidTransition, have, want)
	}
	return nil
}

// Commit has the prover commit to fresh randomness and returns the
// commitment element.
func (s *Interactive) Commit() (group.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(Init); err != nil {
		return nil, err
	}

	c, err := s.prover.Commit(s.opts.rand)
	if err != nil {
		return nil, err
	}
	s.commitment = c
	s.state = Committed
	s.log.Debugw("committed", "state", s.state)
	return c.Element(), nil
}

// Challenge draws a random challenge on the verifier's behalf. When a
// replay guard is configured, a commitment that was already answered
// before ends the session as rejected.
func (s *Interactive) Challenge() (group.Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(Committed); err != nil {
		return nil, err
	}

	c, err := challenge.Random(s.group(), s.opts.rand)
	if err != nil {
		return nil, err
	}
	if s.opts.guard != nil {
		if err := s.opts.guard.Observe(s.verifier.PublicKey(), s.commitment.Element(), c); err != nil {
			s.state = Verified
			s.accepted = false
			s.log.Infow("commitment rejected", "err", err)
			return nil, err
		}
	}
	s.challenge = c
	s.state = Challenged
	s.log.Debugw("challenge issued", "state", s.state)
	return s.group().NewScalar().Set(c), nil
}

// Respond has the prover answer the outstanding challenge, consuming its
// commitment.
func (s *Interactive) Respond() (group.Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(Challenged); err != nil {
		return nil, err
	}

	z, err := s.prover.Respond(s.commitment, s.challenge)
	if err != nil {
		return nil, err
	}
	s.response = z
	s.state = Responded
	s.log.Debugw("responded", "state", s.state)
	return s.group().NewScalar().Set(z), nil
}

// Verify has the verifier check the response. The result is final.
func (s *Interactive) Verify() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expect(Responded); err != nil {
		return false, err
	}

	s.accepted = sigma.Verify(s.group(), s.commitment.Element(), s.verifier.PublicKey(), s.response, s.challenge)
	s.state = Verified
	if s.accepted {
		s.log.Debugw("proof accepted", "state", s.state)
	} else {
		s.log.Infow("proof rejected", "state", s.state)
	}
	return s.accepted, nil
}

// Run executes all four steps in order.
func (s *Interactive) Run() (bool, error) {
	if _, err := s.Commit(); err != nil {
		return false, err
	}
	if _, err := s.Challenge(); err != nil {
		return false, err
	}
	if _, err := s.Respond(); err != nil {
		return false, err
	}
	return s.Verify()
}

// Transcript returns copies of the exchanged messages. Messages not yet
// exchanged are nil.
func (s *Interactive) Transcript() (commitment group.Point, challenge, response group.Scalar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.group()
	if s.commitment != nil {
		commitment = s.commitment.Element()
	}
	if s.challenge != nil {
		challenge = g.NewScalar().Set(s.challenge)
	}
	if s.response != nil {
		response = g.NewScalar().Set(s.response)
	}
	return commitment, challenge, response
}

func (s *Interactive) group() group.Group {
	return s.prover.Group()
}
