// Package session drives complete proof exchanges on top of the
// primitives in the [sigma] package. It enforces step order, keeps the
// transcript and logs each step, and can refuse replayed commitments.
//
// # Interactive
//
// An [Interactive] session moves through Init, Committed, Challenged,
// Responded and Verified. Calling a step out of order returns
// [ErrInvalidTransition]:
//
//	sess, err := session.NewInteractive(prover, verifier)
//	if err != nil {
//		return err
//	}
//
//	ok, err := sess.Run() // Commit, Challenge, Respond, Verify
//	if err != nil {
//		return err
//	}
//
// The steps can also be called one at a time when the messages cross a
// transport in between.
//
// # Non-interactive
//
// A [NonInteractive] session derives the challenge locally. Prove moves it
// from Init straight to Responded and Verify, given only the proof and the
// public key, moves it to Verified. [Prove] is the one-call form, and a
// [Verifier] checks a proof on the receiving side:
//
//	proof, err := session.Prove(prover, &challenge.FiatShamirGenerator{})
//	if err != nil {
//		return err
//	}
//
//	v := session.NewVerifier(g, &challenge.FiatShamirGenerator{})
//	if err := v.Verify(public, proof); err != nil {
//		return err
//	}
//
// # Replays
//
// A [ReplayGuard] shared by verifiers remembers recent commitments. A
// repeated transcript fails with [ErrReplay]; a commitment answered under
// a second challenge fails with [sigma.ErrNonceReuse].
//
// This package does not handle network communication.
package session
