package sigma

import (
	"errors"
	"fmt"

	"github.com/bogacyigitbasi/sigma-protocol/group"
)

// Proof is a self-contained non-interactive proof. It carries no
// challenge; verifiers recompute it from the commitment and public key.
type Proof struct {
	Commitment group.Point  // T
	Response   group.Scalar // z
}

// MarshalBinary encodes the proof as the commitment followed by the
// response, each in its canonical fixed-width form.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if p.Commitment == nil || p.Response == nil {
		return nil, errors.New("sigma: incomplete proof")
	}
	t := p.Commitment.Bytes()
	z := p.Response.Bytes()
	out := make([]byte, 0, len(t)+len(z))
	out = append(out, t...)
	return append(out, z...), nil
}

// UnmarshalProof decodes a proof produced by MarshalBinary for group g.
// Both halves are validated by the group's decoders.
func UnmarshalProof(g group.Group, data []byte) (*Proof, error) {
	if len(data) != g.PointLen()+g.ScalarLen() {
		return nil, fmt.Errorf("sigma: proof must be %d bytes, got %d", g.PointLen()+g.ScalarLen(), len(data))
	}
	t, err := g.NewPoint().SetBytes(data[:g.PointLen()])
	if err != nil {
		return nil, fmt.Errorf("sigma: invalid commitment: %w", err)
	}
	z, err := g.NewScalar().SetBytes(data[g.PointLen():])
	if err != nil {
		return nil, fmt.Errorf("sigma: invalid response: %w", err)
	}
	return &Proof{Commitment: t, Response: z}, nil
}
