// Package challenge produces the challenge scalar of a Sigma protocol.
//
// Three modes are supported:
//
//   - Interactive: [Random] draws a uniform non-zero scalar. Only the
//     verifier may draw it.
//   - Fiat-Shamir: [FiatShamir] hashes the encoded commitment followed by
//     the encoded public key and reduces the digest modulo the group order.
//   - Transcript: [TranscriptChallenge] runs the same derivation through a
//     Merlin transcript with a protocol label.
//
// Digests are always reduced with arbitrary-precision arithmetic, so the
// result lies in [0, order) whatever the digest width.
package challenge
