package main

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	json "github.com/nikkolasg/hexjson"
	"github.com/urfave/cli/v2"

	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/config"
	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bogacyigitbasi/sigma-protocol/log"
	"github.com/bogacyigitbasi/sigma-protocol/modp"
	"github.com/bogacyigitbasi/sigma-protocol/session"
	"github.com/bogacyigitbasi/sigma-protocol/sigma"
)

// output of the commands; replaced in tests.
var output io.Writer = os.Stdout

// Automatically set through -ldflags
var (
	version   = "master"
	gitCommit = "none"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "TOML file with the group and challenge parameters. Defaults to Fiat-Shamir on ristretto255.",
}

var modeFlag = &cli.StringFlag{
	Name:  "mode",
	Usage: "Override the challenge mode: interactive, fiat-shamir or transcript.",
}

var secretFlag = &cli.StringFlag{
	Name:  "secret",
	Usage: "Use this secret (decimal or 0x-hex) instead of a random one.",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "If set, log every protocol step.",
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "Write the result to this file instead of stdout.",
}

var keyFlag = &cli.StringFlag{
	Name:     "key",
	Usage:    "Key file produced by keygen.",
	Required: true,
}

var proofFlag = &cli.StringFlag{
	Name:     "proof",
	Usage:    "Proof file produced by prove.",
	Required: true,
}

var bitsFlag = &cli.IntFlag{
	Name:  "bits",
	Usage: "Bit length of the generated safe prime.",
	Value: 512,
}

// CLI returns the sigma command line application.
func CLI() *cli.App {
	app := cli.NewApp()
	app.Name = "sigma"
	app.Usage = "prove knowledge of a discrete logarithm without revealing it"
	app.Version = fmt.Sprintf("%s (commit %s)", version, gitCommit)
	app.Writer = output
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Flags = []cli.Flag{verboseFlag}
	app.Before = func(c *cli.Context) error {
		level := log.InfoLevel
		if c.Bool(verboseFlag.Name) {
			level = log.DebugLevel
		}
		c.Context = log.ToContext(c.Context, log.New(nil, level, false))
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:   "demo",
			Usage:  "Run a complete proof between an in-process prover and verifier.",
			Flags:  []cli.Flag{configFlag, modeFlag, secretFlag},
			Action: demoCmd,
		},
		{
			Name:   "keygen",
			Usage:  "Generate a key pair.",
			Flags:  []cli.Flag{configFlag, secretFlag, outFlag},
			Action: keygenCmd,
		},
		{
			Name:   "prove",
			Usage:  "Produce a non-interactive proof for a key file.",
			Flags:  []cli.Flag{configFlag, modeFlag, keyFlag, outFlag},
			Action: proveCmd,
		},
		{
			Name:   "verify",
			Usage:  "Verify a proof file.",
			Flags:  []cli.Flag{configFlag, proofFlag},
			Action: verifyCmd,
		},
		{
			Name:   "params",
			Usage:  "Generate modular group parameters from a fresh safe prime.",
			Flags:  []cli.Flag{bitsFlag, modeFlag, outFlag},
			Action: paramsCmd,
		},
	}
	return app
}

// keyFile is the on-disk form of a key pair. Byte fields are hex encoded.
type keyFile struct {
	Backend string
	Secret  []byte
	Public  []byte
}

// proofFile is the on-disk form of a non-interactive proof.
type proofFile struct {
	Backend    string
	Mode       string
	Hash       string `json:",omitempty"`
	Label      string `json:",omitempty"`
	Public     []byte
	Commitment []byte
	Response   []byte
}

func loadParams(c *cli.Context) (*config.Parameters, error) {
	p := config.Default()
	if path := c.String(configFlag.Name); path != "" {
		var err error
		if p, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(modeFlag.Name) {
		p.Mode = c.String(modeFlag.Name)
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func keyPair(c *cli.Context, g group.Group) (*sigma.KeyPair, error) {
	s := c.String(secretFlag.Name)
	if s == "" {
		return sigma.GenerateKeyPair(g, rand.Reader)
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("cannot parse secret %q", s)
	}
	return sigma.DeriveKeyPair(g, g.NewScalar().SetBigInt(v))
}

func demoCmd(c *cli.Context) error {
	l := log.FromContextOrDefault(c.Context)
	params, err := loadParams(c)
	if err != nil {
		return err
	}
	g, err := params.Group()
	if err != nil {
		return err
	}
	kp, err := keyPair(c, g)
	if err != nil {
		return err
	}
	prover, err := sigma.NewProver(g, kp)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "group:      %s\n", g.Name())
	fmt.Fprintf(output, "public:     %s\n", describe(kp.Public.Bytes()))

	mode, err := params.ChallengeMode()
	if err != nil {
		return err
	}
	var ok bool
	if mode == challenge.Interactive {
		verifier, err := sigma.NewVerifier(g, kp.Public)
		if err != nil {
			return err
		}
		sess, err := session.NewInteractive(prover, verifier, session.WithLogger(l))
		if err != nil {
			return err
		}
		if ok, err = sess.Run(); err != nil {
			return err
		}
		t, ch, z := sess.Transcript()
		fmt.Fprintf(output, "commitment: %s\n", describe(t.Bytes()))
		fmt.Fprintf(output, "challenge:  %s\n", describe(ch.Bytes()))
		fmt.Fprintf(output, "response:   %s\n", describe(z.Bytes()))
	} else {
		gen, err := params.ChallengeGenerator(rand.Reader)
		if err != nil {
			return err
		}
		proof, err := session.Prove(prover, gen, session.WithLogger(l))
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "commitment: %s\n", describe(proof.Commitment.Bytes()))
		fmt.Fprintf(output, "response:   %s\n", describe(proof.Response.Bytes()))
		err = session.NewVerifier(g, gen, session.WithLogger(l)).Verify(kp.Public, proof)
		if err != nil && !errors.Is(err, session.ErrVerificationFailed) {
			return err
		}
		ok = err == nil
	}

	if !ok {
		return cli.Exit("proof rejected", 1)
	}
	fmt.Fprintf(output, "proof accepted (%s)\n", mode)
	return nil
}

func keygenCmd(c *cli.Context) error {
	params, err := loadParams(c)
	if err != nil {
		return err
	}
	g, err := params.Group()
	if err != nil {
		return err
	}
	kp, err := keyPair(c, g)
	if err != nil {
		return err
	}
	return writeJSON(c, &keyFile{
		Backend: g.Name(),
		Secret:  kp.Secret.Bytes(),
		Public:  kp.Public.Bytes(),
	})
}

func proveCmd(c *cli.Context) error {
	l := log.FromContextOrDefault(c.Context)
	params, err := loadParams(c)
	if err != nil {
		return err
	}
	g, err := params.Group()
	if err != nil {
		return err
	}

	var kf keyFile
	if err := readJSON(c.String(keyFlag.Name), &kf); err != nil {
		return err
	}
	if kf.Backend != g.Name() {
		return fmt.Errorf("key is for %s, parameters select %s", kf.Backend, g.Name())
	}
	secret, err := g.NewScalar().SetBytes(kf.Secret)
	if err != nil {
		return fmt.Errorf("invalid secret: %w", err)
	}
	kp, err := sigma.DeriveKeyPair(g, secret)
	if err != nil {
		return err
	}
	prover, err := sigma.NewProver(g, kp)
	if err != nil {
		return err
	}

	gen, err := params.ChallengeGenerator(rand.Reader)
	if err != nil {
		return err
	}
	proof, err := session.Prove(prover, gen, session.WithLogger(l))
	if err != nil {
		return err
	}
	return writeJSON(c, &proofFile{
		Backend:    g.Name(),
		Mode:       gen.Mode().String(),
		Hash:       params.Hash,
		Label:      params.Label,
		Public:     kp.Public.Bytes(),
		Commitment: proof.Commitment.Bytes(),
		Response:   proof.Response.Bytes(),
	})
}

func verifyCmd(c *cli.Context) error {
	l := log.FromContextOrDefault(c.Context)
	params, err := loadParams(c)
	if err != nil {
		return err
	}

	var pf proofFile
	if err := readJSON(c.String(proofFlag.Name), &pf); err != nil {
		return err
	}
	if err := matchProof(params, &pf); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	g, err := params.Group()
	if err != nil {
		return err
	}
	if pf.Backend != g.Name() {
		return fmt.Errorf("proof is for %s, parameters select %s", pf.Backend, g.Name())
	}

	public, err := g.NewPoint().SetBytes(pf.Public)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	proof, err := sigma.UnmarshalProof(g, append(append([]byte{}, pf.Commitment...), pf.Response...))
	if err != nil {
		return err
	}
	gen, err := params.ChallengeGenerator(rand.Reader)
	if err != nil {
		return err
	}
	if err := session.NewVerifier(g, gen, session.WithLogger(l)).Verify(public, proof); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintln(output, "proof accepted")
	return nil
}

// matchProof checks that the challenge settings recorded in a proof file
// are the ones the verifier is configured for. The recorded fields are
// never used to build the challenge generator.
func matchProof(params *config.Parameters, pf *proofFile) error {
	want, err := params.ChallengeMode()
	if err != nil {
		return err
	}
	got, err := challenge.ParseMode(pf.Mode)
	if err != nil {
		return fmt.Errorf("proof: %w", err)
	}
	if got != want {
		return fmt.Errorf("proof uses %s challenges, verifier expects %s", got, want)
	}
	switch want {
	case challenge.FiatShamirMode:
		h, err := params.Hasher()
		if err != nil {
			return err
		}
		ph, err := challenge.HasherByName(pf.Hash)
		if err != nil {
			return fmt.Errorf("proof: %w", err)
		}
		if ph.Name() != h.Name() {
			return fmt.Errorf("proof hashed with %s, verifier expects %s", ph.Name(), h.Name())
		}
	case challenge.TranscriptMode:
		if transcriptLabel(pf.Label) != transcriptLabel(params.Label) {
			return fmt.Errorf("proof bound to label %q, verifier expects %q", pf.Label, params.Label)
		}
	}
	return nil
}

func transcriptLabel(l string) string {
	if l == "" {
		return challenge.DefaultTranscriptLabel
	}
	return l
}

func paramsCmd(c *cli.Context) error {
	mode, err := challenge.ParseMode(c.String(modeFlag.Name))
	if err != nil {
		return err
	}
	g, err := modp.GenerateParams(rand.Reader, c.Int(bitsFlag.Name))
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := config.FromModP(g, mode).Encode(&buf); err != nil {
		return err
	}
	w, err := destination(c)
	if err != nil {
		return err
	}
	return emit(w, buf.Bytes())
}

func describe(b []byte) string {
	if len(b) <= 8 {
		return new(big.Int).SetBytes(b).String()
	}
	return fmt.Sprintf("%x", b)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func destination(c *cli.Context) (io.WriteCloser, error) {
	path := c.String(outFlag.Name)
	if path == "" {
		return nopCloser{output}, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
}

// emit writes data to w and closes it. A failed close is reported: for a
// file it is the last chance to learn the data never reached the disk.
func emit(w io.WriteCloser, data []byte) error {
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writeJSON(c *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	w, err := destination(c)
	if err != nil {
		return err
	}
	return emit(w, append(data, '\n'))
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
