package sigma

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/bogacyigitbasi/sigma-protocol/bjj"
	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/edwards"
	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bogacyigitbasi/sigma-protocol/modp"
	"github.com/bogacyigitbasi/sigma-protocol/ristretto"
)

func toyGroup(t *testing.T) *modp.Group {
	t.Helper()
	g, err := modp.New(big.NewInt(101), big.NewInt(5), nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func scalar(g group.Group, v int64) group.Scalar {
	return g.NewScalar().SetBigInt(big.NewInt(v))
}

// fixedCommitment builds a commitment with known randomness.
func fixedCommitment(g group.Group, r int64) *Commitment {
	nonce := scalar(g, r)
	return &Commitment{
		group:   g,
		element: g.NewPoint().ScalarMult(nonce, g.Generator()),
		nonce:   nonce,
	}
}

func allGroups(t *testing.T) []group.Group {
	t.Helper()
	wide, err := modp.GenerateParams(rand.Reader, 128)
	if err != nil {
		t.Fatal(err)
	}
	return []group.Group{
		toyGroup(t),
		wide,
		&bjj.BJJ{},
		&ristretto.Ristretto{},
		&edwards.Ed25519{},
	}
}

func TestToyExchange(t *testing.T) {
	g := toyGroup(t)

	kp, err := DeriveKeyPair(g, scalar(g, 9))
	if err != nil {
		t.Fatal(err)
	}
	if got := kp.Public.(*modp.Point).BigInt().Int64(); got != 88 {
		t.Fatalf("5^9 mod 101 = %d, want 88", got)
	}

	c := fixedCommitment(g, 13)
	if got := c.Element().(*modp.Point).BigInt().Int64(); got != 56 {
		t.Fatalf("5^13 mod 101 = %d, want 56", got)
	}

	z, err := Respond(g, c, kp.Secret, scalar(g, 7))
	if err != nil {
		t.Fatal(err)
	}
	if got := z.BigInt().Int64(); got != 76 {
		t.Fatalf("13 + 9*7 mod 100 = %d, want 76", got)
	}
	if !Verify(g, c.Element(), kp.Public, z, scalar(g, 7)) {
		t.Error("honest response rejected")
	}
	if Verify(g, c.Element(), kp.Public, scalar(g, 77), scalar(g, 7)) {
		t.Error("tampered response accepted")
	}
}

func TestCompleteness(t *testing.T) {
	gens := []challenge.Generator{
		&challenge.FiatShamirGenerator{},
		&challenge.FiatShamirGenerator{Hasher: &challenge.Blake2bHasher{}},
		&challenge.FiatShamirGenerator{Hasher: &challenge.SHA3Hasher{}},
		&challenge.TranscriptGenerator{},
	}

	for _, g := range allGroups(t) {
		t.Run(g.Name(), func(t *testing.T) {
			kp, err := GenerateKeyPair(g, rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			prover, err := NewProver(g, kp)
			if err != nil {
				t.Fatal(err)
			}
			verifier, err := NewVerifier(g, kp.Public)
			if err != nil {
				t.Fatal(err)
			}

			t.Run("Interactive", func(t *testing.T) {
				for i := 0; i < 10; i++ {
					c, err := prover.Commit(rand.Reader)
					if err != nil {
						t.Fatal(err)
					}
					ch, err := verifier.IssueChallenge(rand.Reader)
					if err != nil {
						t.Fatal(err)
					}
					z, err := prover.Respond(c, ch)
					if err != nil {
						t.Fatal(err)
					}
					if v := z.BigInt(); v.Sign() < 0 || v.Cmp(g.Order()) >= 0 {
						t.Fatalf("response %s out of range", v)
					}
					if !verifier.Verify(c.Element(), z) {
						t.Fatal("honest interactive proof rejected")
					}
				}
			})

			for _, gen := range gens {
				t.Run(gen.Mode().String(), func(t *testing.T) {
					proof, err := prover.Prove(rand.Reader, gen)
					if err != nil {
						t.Fatal(err)
					}
					if !VerifyProof(g, gen, kp.Public, proof) {
						t.Fatal("honest proof rejected")
					}
					if !verifier.VerifyProof(proof, gen) {
						t.Fatal("honest proof rejected by verifier")
					}
				})
			}
		})
	}
}

// With p = 101 the generator has order 25. A wrong secret x' with
// gcd(x'-x, 25) = 1 is accepted only when 25 divides the challenge.
func TestSoundnessSweep(t *testing.T) {
	g := toyGroup(t)
	kp, err := DeriveKeyPair(g, scalar(g, 9))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name   string
		secret int64
		want   int
	}{
		{"Honest", 9, 99},
		{"Forged", 10, 3},
		{"ForgedFar", 52, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			accepted := 0
			for c := int64(1); c < 100; c++ {
				com := fixedCommitment(g, 13)
				ch := scalar(g, c)
				z, err := Respond(g, com, scalar(g, tc.secret), ch)
				if err != nil {
					t.Fatal(err)
				}
				if Verify(g, com.Element(), kp.Public, z, ch) {
					accepted++
				}
			}
			if accepted != tc.want {
				t.Errorf("accepted %d of 99 challenges, want %d", accepted, tc.want)
			}
		})
	}
}

func TestNonceReuse(t *testing.T) {
	g := &bjj.BJJ{}
	kp, _ := GenerateKeyPair(g, rand.Reader)
	prover, err := NewProver(g, kp)
	if err != nil {
		t.Fatal(err)
	}

	c, err := prover.Commit(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := prover.Respond(c, scalar(g, 1)); err != nil {
		t.Fatal(err)
	}
	if !c.IsConsumed() {
		t.Error("commitment should be consumed")
	}
	if c.nonce != nil {
		t.Error("randomness should be cleared")
	}
	if _, err := prover.Respond(c, scalar(g, 2)); !errors.Is(err, ErrNonceReuse) {
		t.Errorf("second response: got %v, want ErrNonceReuse", err)
	}

	t.Run("Concurrent", func(t *testing.T) {
		c, _ := prover.Commit(rand.Reader)
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := prover.Respond(c, scalar(g, int64(i+1))); err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		if successes != 1 {
			t.Errorf("%d responses succeeded, want exactly 1", successes)
		}
	})

	t.Run("ForeignCommitment", func(t *testing.T) {
		other, _ := NewProver(g, kp)
		c, _ := other.Commit(rand.Reader)
		if _, err := prover.Respond(c, scalar(g, 1)); err == nil {
			t.Error("expected error for commitment of another prover")
		}
		if c.IsConsumed() {
			t.Error("rejected response must not consume the commitment")
		}
	})

	t.Run("MixedGroups", func(t *testing.T) {
		toy := toyGroup(t)
		c := fixedCommitment(toy, 13)
		if _, err := Respond(g, c, scalar(g, 9), scalar(g, 7)); err == nil {
			t.Error("expected error for a group that does not own the commitment")
		}
		if _, err := Respond(toy, c, scalar(g, 9), scalar(toy, 7)); err == nil {
			t.Error("expected error for a secret from another group")
		}
		if _, err := Respond(toy, c, scalar(toy, 9), scalar(g, 7)); err == nil {
			t.Error("expected error for a challenge from another group")
		}
		if c.IsConsumed() {
			t.Fatal("rejected responses must not consume the commitment")
		}

		z, err := Respond(toy, c, scalar(toy, 9), scalar(toy, 7))
		if err != nil {
			t.Fatal(err)
		}
		if z.BigInt().Int64() != 76 {
			t.Errorf("z = %v, want 76", z.BigInt())
		}
	})
}

func TestExtractWitness(t *testing.T) {
	t.Run("Toy", func(t *testing.T) {
		g := toyGroup(t)
		x := scalar(g, 9)
		z1, _ := Respond(g, fixedCommitment(g, 13), x, scalar(g, 3))
		z2, _ := Respond(g, fixedCommitment(g, 13), x, scalar(g, 2))

		got, err := ExtractWitness(g, scalar(g, 3), z1, scalar(g, 2), z2)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(x) {
			t.Errorf("extracted %s, want 9", got.BigInt())
		}

		// 7 - 3 = 4 shares a factor with the order 100.
		z3, _ := Respond(g, fixedCommitment(g, 13), x, scalar(g, 7))
		if _, err := ExtractWitness(g, scalar(g, 7), z3, scalar(g, 3), z1); err == nil {
			t.Error("expected error for non-invertible difference")
		}
		if _, err := ExtractWitness(g, scalar(g, 3), z1, scalar(g, 3), z1); err == nil {
			t.Error("expected error for equal challenges")
		}
	})

	for _, g := range []group.Group{&bjj.BJJ{}, &ristretto.Ristretto{}, &edwards.Ed25519{}} {
		t.Run(g.Name(), func(t *testing.T) {
			kp, _ := GenerateKeyPair(g, rand.Reader)
			r, _ := g.RandomScalar(rand.Reader)
			c1, _ := challenge.Random(g, rand.Reader)
			c2, _ := challenge.Random(g, rand.Reader)

			mk := func() *Commitment {
				return &Commitment{
					group:   g,
					element: g.NewPoint().ScalarMult(r, g.Generator()),
					nonce:   g.NewScalar().Set(r),
				}
			}
			com1, com2 := mk(), mk()
			z1, _ := Respond(g, com1, kp.Secret, c1)
			z2, _ := Respond(g, com2, kp.Secret, c2)
			if !Verify(g, com1.Element(), kp.Public, z1, c1) || !Verify(g, com2.Element(), kp.Public, z2, c2) {
				t.Fatal("transcripts should verify")
			}

			got, err := ExtractWitness(g, c1, z1, c2, z2)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(kp.Secret) {
				t.Error("extracted witness does not match secret")
			}
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	g := toyGroup(t)
	kp, _ := DeriveKeyPair(g, scalar(g, 9))
	c := fixedCommitment(g, 13)
	ch := scalar(g, 7)
	z, _ := Respond(g, c, kp.Secret, ch)
	t0 := c.Element()

	other, _ := DeriveKeyPair(g, scalar(g, 10))
	foreign := &bjj.BJJ{}
	fkp, _ := GenerateKeyPair(foreign, rand.Reader)

	tests := []struct {
		name       string
		commitment group.Point
		public     group.Point
		response   group.Scalar
		challenge  group.Scalar
	}{
		{"NilCommitment", nil, kp.Public, z, ch},
		{"NilPublic", t0, nil, z, ch},
		{"NilResponse", t0, kp.Public, nil, ch},
		{"NilChallenge", t0, kp.Public, z, nil},
		{"WrongPublic", t0, other.Public, z, ch},
		{"WrongChallenge", t0, kp.Public, z, scalar(g, 8)},
		{"ForeignPoint", t0, fkp.Public, z, ch},
		{"ForeignScalar", t0, kp.Public, fkp.Secret, ch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify(g, tt.commitment, tt.public, tt.response, tt.challenge) {
				t.Error("expected rejection")
			}
		})
	}
}

func TestVerifierChallenge(t *testing.T) {
	g := &ristretto.Ristretto{}
	kp, _ := GenerateKeyPair(g, rand.Reader)
	prover, _ := NewProver(g, kp)
	verifier, err := NewVerifier(g, kp.Public)
	if err != nil {
		t.Fatal(err)
	}

	c, _ := prover.Commit(rand.Reader)
	if verifier.Verify(c.Element(), g.NewScalar()) {
		t.Error("verify without a challenge must fail")
	}
	if verifier.Challenge() != nil {
		t.Error("no challenge should be outstanding")
	}

	ch, _ := verifier.IssueChallenge(rand.Reader)
	if !verifier.Challenge().Equal(ch) {
		t.Error("stored challenge differs from issued one")
	}
	z, _ := prover.Respond(c, ch)
	if !verifier.Verify(c.Element(), z) {
		t.Fatal("honest response rejected")
	}
	if verifier.Verify(c.Element(), z) {
		t.Error("challenge must not be reusable after verification")
	}

	if _, err := NewVerifier(g, nil); err == nil {
		t.Error("expected error for nil public key")
	}
}

func TestKeyPairs(t *testing.T) {
	g := &edwards.Ed25519{}
	x, _ := g.RandomScalar(rand.Reader)

	a, err := DeriveKeyPair(g, x)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveKeyPair(g, x)
	if !a.Public.Equal(b.Public) {
		t.Error("derivation must be deterministic")
	}
	if _, err := DeriveKeyPair(g, nil); err == nil {
		t.Error("expected error for nil secret")
	}

	bad := &KeyPair{Secret: a.Secret, Public: g.Generator()}
	if _, err := NewProver(g, bad); err == nil {
		t.Error("expected error for mismatched key pair")
	}
	if _, err := NewProver(g, nil); err == nil {
		t.Error("expected error for nil key pair")
	}
}

func TestProofEncoding(t *testing.T) {
	for _, g := range allGroups(t) {
		t.Run(g.Name(), func(t *testing.T) {
			kp, _ := GenerateKeyPair(g, rand.Reader)
			prover, _ := NewProver(g, kp)
			proof, err := prover.Prove(rand.Reader, nil)
			if err != nil {
				t.Fatal(err)
			}

			data, err := proof.MarshalBinary()
			if err != nil {
				t.Fatal(err)
			}
			if len(data) != g.PointLen()+g.ScalarLen() {
				t.Fatalf("encoded length %d", len(data))
			}
			decoded, err := UnmarshalProof(g, data)
			if err != nil {
				t.Fatal(err)
			}
			if !VerifyProof(g, nil, kp.Public, decoded) {
				t.Error("decoded proof rejected")
			}

			if _, err := UnmarshalProof(g, data[:len(data)-1]); err == nil {
				t.Error("expected error for truncated proof")
			}

			// Flipping a response bit breaks the proof.
			data[len(data)-g.ScalarLen()] ^= 1
			if tampered, err := UnmarshalProof(g, data); err == nil && VerifyProof(g, nil, kp.Public, tampered) {
				t.Error("tampered proof accepted")
			}
		})
	}
}

func TestNonInteractiveMisuse(t *testing.T) {
	g := toyGroup(t)
	kp, _ := DeriveKeyPair(g, scalar(g, 9))
	prover, _ := NewProver(g, kp)

	interactive := &challenge.RandomGenerator{Rand: rand.Reader}
	if _, err := prover.Prove(rand.Reader, interactive); err == nil {
		t.Error("expected error for self-chosen challenge")
	}

	proof, _ := prover.Prove(rand.Reader, nil)
	if VerifyProof(g, interactive, kp.Public, proof) {
		t.Error("interactive generator must not verify proofs")
	}
	if VerifyProof(g, nil, kp.Public, nil) {
		t.Error("nil proof accepted")
	}
	if VerifyProof(g, nil, kp.Public, &Proof{}) {
		t.Error("empty proof accepted")
	}

	t.Run("DerivationMismatch", func(t *testing.T) {
		g := &bjj.BJJ{}
		kp, _ := GenerateKeyPair(g, rand.Reader)
		prover, _ := NewProver(g, kp)
		proof, _ := prover.Prove(rand.Reader, nil)
		if VerifyProof(g, &challenge.TranscriptGenerator{}, kp.Public, proof) {
			t.Error("proof must not verify under a different challenge derivation")
		}
		sha3 := &challenge.FiatShamirGenerator{Hasher: &challenge.SHA3Hasher{}}
		if VerifyProof(g, sha3, kp.Public, proof) {
			t.Error("proof must not verify under a different hash")
		}
	})
}
