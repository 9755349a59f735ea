// Package sigma implements the Schnorr Sigma protocol: a zero-knowledge
// proof that the prover knows the secret x behind a public element
// y = x*G, over any group implementing [group.Group].
//
// # Protocol
//
// One proof attempt is three moves:
//
//  1. The prover samples r, sends the commitment T = r*G ([Prover.Commit]).
//  2. The verifier sends a challenge c ([Verifier.IssueChallenge]).
//  3. The prover sends z = r + x*c mod order ([Prover.Respond]).
//
// The verifier accepts iff z*G == T + c*Y ([Verify]).
//
// # Non-interactive proofs
//
// With the Fiat-Shamir transform the challenge is derived from the
// commitment and public key, so a [Proof] stands on its own:
//
//	kp, _ := sigma.GenerateKeyPair(g, rand.Reader)
//	prover, _ := sigma.NewProver(g, kp)
//
//	proof, _ := prover.Prove(rand.Reader, &challenge.FiatShamirGenerator{})
//	valid := sigma.VerifyProof(g, &challenge.FiatShamirGenerator{}, kp.Public, proof)
//
// # Security Considerations
//
// Commitment randomness must never answer two different challenges: given
// both responses anyone can compute x with [ExtractWitness]. A [Commitment]
// therefore answers exactly once and fails with [ErrNonceReuse] afterwards.
//
// Challenges in interactive mode must be drawn only after the commitment
// is received. A prover who knows c in advance can pick z first and set
// T = z*G - c*Y.
package sigma
