package session

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bogacyigitbasi/sigma-protocol/sigma"
)

// ErrReplay is returned when an identical transcript is presented twice.
var ErrReplay = errors.New("session: transcript replayed")

// DefaultGuardSize is the number of commitments a ReplayGuard remembers
// when created with a non-positive size.
const DefaultGuardSize = 4096

// ReplayGuard remembers recently seen commitments per public key along
// with the challenge they were answered with. It is safe for concurrent
// use.
//
// Seeing a commitment again with the same challenge is a replay. Seeing it
// with a different challenge means the prover reused its randomness, and
// both transcripts together reveal the secret.
type ReplayGuard struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewReplayGuard returns a guard remembering up to size commitments.
func NewReplayGuard(size int) (*ReplayGuard, error) {
	if size <= 0 {
		size = DefaultGuardSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ReplayGuard{cache: c}, nil
}

// Observe records commitment and challenge for public. It returns
// [ErrReplay] or [sigma.ErrNonceReuse] if the commitment was seen before.
func (r *ReplayGuard) Observe(public, commitment group.Point, challenge group.Scalar) error {
	if public == nil || commitment == nil || challenge == nil {
		return errors.New("session: incomplete transcript")
	}
	key := string(public.Bytes()) + string(commitment.Bytes())
	c := challenge.Bytes()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.cache.Get(key); ok {
		if bytes.Equal(prev.([]byte), c) {
			return ErrReplay
		}
		return fmt.Errorf("%w: commitment answered under two challenges", sigma.ErrNonceReuse)
	}
	r.cache.Add(key, c)
	return nil
}

// Len returns the number of remembered commitments.
func (r *ReplayGuard) Len() int {
	return r.cache.Len()
}
