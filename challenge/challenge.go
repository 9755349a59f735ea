package challenge

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/gtank/merlin"
)

// ErrRangeReduction is returned when a reduced value cannot be loaded into
// the backend's scalar type unchanged.
var ErrRangeReduction = errors.New("challenge: range reduction failed")

// Reduce interprets digest as a big-endian unsigned integer of any length
// and reduces it exactly modulo the group order.
func Reduce(g group.Group, digest []byte) (group.Scalar, error) {
	v := new(big.Int).SetBytes(digest)
	v.Mod(v, g.Order())
	s := g.NewScalar().SetBigInt(v)
	if s.BigInt().Cmp(v) != 0 {
		return nil, fmt.Errorf("%w: %s group returned a different value", ErrRangeReduction, g.Name())
	}
	return s, nil
}

// Random draws a challenge uniformly from [1, order). Zero draws are
// rejected and redrawn.
//
// Only a verifier may call Random for an interactive proof. A challenge
// chosen by the prover makes the proof trivially forgeable.
func Random(g group.Group, r io.Reader) (group.Scalar, error) {
	if g.Order().Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("%w: order must be at least 2 to draw a non-zero challenge", group.ErrInvalidOrder)
	}
	for {
		c, err := g.RandomScalar(r)
		if err != nil {
			return nil, err
		}
		if !c.IsZero() {
			return c, nil
		}
	}
}

// FiatShamir derives the non-interactive challenge
//
//	c = H(encode(commitment) || encode(public)) mod order
//
// A nil hasher selects [DefaultHasher]. Anyone holding the commitment and
// the public key can recompute the result.
func FiatShamir(g group.Group, h Hasher, commitment, public group.Point) (group.Scalar, error) {
	if commitment == nil || public == nil {
		return nil, errors.New("challenge: nil commitment or public key")
	}
	if h == nil {
		h = DefaultHasher()
	}
	return Reduce(g, h.Sum(commitment.Bytes(), public.Bytes()))
}

// Merlin transcript labels.
const (
	labelGroup      = "group"
	labelPublic     = "public"
	labelCommitment = "commitment"
	labelChallenge  = "challenge"

	// wideLen is the number of bytes extracted from the transcript. Twice
	// the 256-bit order keeps the reduction bias negligible.
	wideLen = 64
)

// DefaultTranscriptLabel is the protocol label used when none is set.
const DefaultTranscriptLabel = "sigma-dlog"

// TranscriptChallenge derives a challenge from a Merlin transcript bound to
// label, the group name, the public key and the commitment.
func TranscriptChallenge(g group.Group, label string, commitment, public group.Point) (group.Scalar, error) {
	if commitment == nil || public == nil {
		return nil, errors.New("challenge: nil commitment or public key")
	}
	if label == "" {
		label = DefaultTranscriptLabel
	}
	t := merlin.NewTranscript(label)
	t.AppendMessage([]byte(labelGroup), []byte(g.Name()))
	t.AppendMessage([]byte(labelPublic), public.Bytes())
	t.AppendMessage([]byte(labelCommitment), commitment.Bytes())
	return Reduce(g, t.ExtractBytes([]byte(labelChallenge), wideLen))
}

// Mode selects how challenges are produced.
type Mode int

const (
	// Interactive challenges are sampled by the verifier.
	Interactive Mode = iota
	// FiatShamirMode challenges hash the commitment and public key.
	FiatShamirMode
	// TranscriptMode challenges come from a Merlin transcript.
	TranscriptMode
)

func (m Mode) String() string {
	switch m {
	case Interactive:
		return "interactive"
	case FiatShamirMode:
		return "fiat-shamir"
	case TranscriptMode:
		return "transcript"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the configuration name of a mode. The empty string
// selects Interactive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "interactive":
		return Interactive, nil
	case "fiat-shamir", "fiatshamir", "non-interactive":
		return FiatShamirMode, nil
	case "transcript", "merlin":
		return TranscriptMode, nil
	default:
		return 0, fmt.Errorf("unknown challenge mode %q", s)
	}
}

// Generator produces the challenge for one proof attempt.
type Generator interface {
	// Mode reports which kind of challenge the generator produces.
	Mode() Mode
	// Challenge returns the challenge for the given commitment and public key.
	Challenge(g group.Group, commitment, public group.Point) (group.Scalar, error)
}

// RandomGenerator samples interactive challenges from Rand.
type RandomGenerator struct {
	Rand io.Reader
}

// Mode returns Interactive.
func (r *RandomGenerator) Mode() Mode { return Interactive }

// Challenge ignores its point arguments and returns [Random].
func (r *RandomGenerator) Challenge(g group.Group, _, _ group.Point) (group.Scalar, error) {
	return Random(g, r.Rand)
}

// FiatShamirGenerator derives challenges with [FiatShamir].
type FiatShamirGenerator struct {
	Hasher Hasher
}

// Mode returns FiatShamirMode.
func (f *FiatShamirGenerator) Mode() Mode { return FiatShamirMode }

// Challenge returns [FiatShamir] over the generator's hasher.
func (f *FiatShamirGenerator) Challenge(g group.Group, commitment, public group.Point) (group.Scalar, error) {
	return FiatShamir(g, f.Hasher, commitment, public)
}

// TranscriptGenerator derives challenges with [TranscriptChallenge].
type TranscriptGenerator struct {
	Label string
}

// Mode returns TranscriptMode.
func (t *TranscriptGenerator) Mode() Mode { return TranscriptMode }

// Challenge returns [TranscriptChallenge] under the generator's label.
func (t *TranscriptGenerator) Challenge(g group.Group, commitment, public group.Point) (group.Scalar, error) {
	return TranscriptChallenge(g, t.Label, commitment, public)
}
