// Package group defines abstract interfaces for the cyclic groups a
// discrete-logarithm proof of knowledge can run over.
//
// This package provides three core interfaces that abstract over the
// arithmetic needed by Schnorr-style Sigma protocols:
//
//   - [Scalar]: Elements of the scalar ring (integers modulo the group order)
//   - [Point]: Elements of the group (curve points or residues mod p)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// The protocol needs four capabilities from a group: power
// ([Point.ScalarMult]), combine ([Point.Add]), identity ([Group.NewPoint])
// and encode ([Point.Bytes], [Scalar.Bytes]). Everything else is derived.
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern for efficiency. Operations
// like Add, Mul, and ScalarMult set the receiver to the result and return it,
// allowing method chaining while minimizing allocations:
//
//	// Compute r + x*c
//	z := g.NewScalar().Mul(x, c)
//	z = g.NewScalar().Add(r, z)
//
// The group operation is written additively for every backend, including
// the multiplicative group modulo a prime in package modp.
//
// # Implementations
//
//   - modp: the subgroup of Z_p^* generated by g
//   - bjj: Baby Jubjub (gnark-crypto)
//   - ristretto: ristretto255 (go-ristretto)
//   - edwards: the Ed25519 prime-order group (kyber)
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Point operations are constant-time where the backend allows it
//   - Random scalars are generated uniformly from cryptographically secure sources
//   - Invalid group elements are rejected in SetBytes
//
// Parameter errors all wrap [ErrInvalidParameters].
package group
