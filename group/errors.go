package group

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is the parent of every group parameter error.
// Use errors.Is to test for it.
var ErrInvalidParameters = errors.New("invalid group parameters")

var (
	// ErrInvalidModulus is returned when the modulus is not an odd prime > 2.
	ErrInvalidModulus = fmt.Errorf("%w: modulus must be an odd prime greater than 2", ErrInvalidParameters)
	// ErrInvalidOrder is returned when the declared group order is zero or
	// incompatible with the modulus.
	ErrInvalidOrder = fmt.Errorf("%w: invalid group order", ErrInvalidParameters)
	// ErrInvalidGenerator is returned when the generator is outside [1, modulus)
	// or does not have the declared order.
	ErrInvalidGenerator = fmt.Errorf("%w: invalid generator", ErrInvalidParameters)
)

// ErrInvalidEncoding is returned by SetBytes when the input is not a
// canonical encoding.
var ErrInvalidEncoding = errors.New("invalid encoding")
