package group

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// UniformScalar returns a scalar of g uniformly distributed in [0, order)
// read from r. Rejection sampling keeps the result free of modulo bias.
func UniformScalar(g Group, r io.Reader) (Scalar, error) {
	v, err := rand.Int(r, g.Order())
	if err != nil {
		return nil, fmt.Errorf("sampling scalar: %w", err)
	}
	return g.NewScalar().SetBigInt(v), nil
}

// PadBytes left-pads the big-endian encoding of v with zeros to size bytes.
// It panics if v does not fit, which callers rule out by reducing first.
func PadBytes(v *big.Int, size int) []byte {
	out := make([]byte, size)
	return v.FillBytes(out)
}
