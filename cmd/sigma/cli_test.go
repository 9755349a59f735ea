package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/nikkolasg/hexjson"
	"github.com/stretchr/testify/require"
)

const toyConfig = `
backend   = "modp"
modulus   = "101"
generator = "5"
mode      = "interactive"
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	output = &buf
	t.Cleanup(func() { output = os.Stdout })
	err := CLI().Run(append([]string{"sigma"}, args...))
	return buf.String(), err
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "params.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDemoToy(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), toyConfig)

	out, err := run(t, "demo", "--config", cfg, "--secret", "9")
	require.NoError(t, err)
	require.Contains(t, out, "public:     88")
	require.Contains(t, out, "proof accepted (interactive)")

	for _, mode := range []string{"fiat-shamir", "transcript"} {
		out, err = run(t, "demo", "--config", cfg, "--secret", "9", "--mode", mode)
		require.NoError(t, err)
		require.Contains(t, out, "proof accepted ("+mode+")")
	}

	_, err = run(t, "demo", "--config", cfg, "--mode", "telepathy")
	require.Error(t, err)
	_, err = run(t, "demo", "--secret", "nine")
	require.Error(t, err)
}

func TestDemoDefault(t *testing.T) {
	out, err := run(t, "demo")
	require.NoError(t, err)
	require.Contains(t, out, "group:      ristretto255")
	require.Contains(t, out, "proof accepted (fiat-shamir)")
}

func TestKeygenProveVerify(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "backend = \"bjj\"\nhash = \"blake2b\"\n")
	keyPath := filepath.Join(dir, "key.json")
	proofPath := filepath.Join(dir, "proof.json")

	_, err := run(t, "keygen", "--config", cfg, "--out", keyPath)
	require.NoError(t, err)

	_, err = run(t, "prove", "--config", cfg, "--key", keyPath, "--out", proofPath)
	require.NoError(t, err)

	out, err := run(t, "verify", "--config", cfg, "--proof", proofPath)
	require.NoError(t, err)
	require.Contains(t, out, "proof accepted")

	// Tamper with the response.
	data, err := os.ReadFile(proofPath)
	require.NoError(t, err)
	var pf proofFile
	require.NoError(t, json.Unmarshal(data, &pf))
	require.Equal(t, "blake2b", pf.Hash)
	pf.Response[len(pf.Response)-1] ^= 1
	data, err = json.Marshal(&pf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(proofPath, data, 0o600))

	_, err = run(t, "verify", "--config", cfg, "--proof", proofPath)
	require.Error(t, err)

	// Wrong backend.
	other := writeConfig(t, t.TempDir(), "backend = \"ed25519\"\n")
	_, err = run(t, "prove", "--config", other, "--key", keyPath)
	require.Error(t, err)
}

func TestParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generated.toml")
	_, err := run(t, "params", "--bits", "64", "--mode", "transcript", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `backend = "modp"`))

	out, err := run(t, "demo", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "proof accepted (transcript)")

	_, err = run(t, "params", "--bits", "4")
	require.Error(t, err)
}

func TestVerifyUsesOwnParameters(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.json")
	proofPath := filepath.Join(dir, "proof.json")

	prover := filepath.Join(dir, "prover.toml")
	require.NoError(t, os.WriteFile(prover, []byte("mode = \"transcript\"\nlabel = \"attacker-label\"\n"), 0o600))
	verifier := filepath.Join(dir, "verifier.toml")
	require.NoError(t, os.WriteFile(verifier, []byte("mode = \"transcript\"\nlabel = \"bank-login-v1\"\n"), 0o600))

	_, err := run(t, "keygen", "--config", prover, "--out", keyPath)
	require.NoError(t, err)
	_, err = run(t, "prove", "--config", prover, "--key", keyPath, "--out", proofPath)
	require.NoError(t, err)

	_, err = run(t, "verify", "--config", prover, "--proof", proofPath)
	require.NoError(t, err)
	_, err = run(t, "verify", "--config", verifier, "--proof", proofPath)
	require.Error(t, err)

	// The recorded label is not trusted either: rewriting it to match the
	// verifier leaves a challenge bound to the prover's label.
	data, err := os.ReadFile(proofPath)
	require.NoError(t, err)
	var pf proofFile
	require.NoError(t, json.Unmarshal(data, &pf))
	pf.Label = "bank-login-v1"
	data, err = json.Marshal(&pf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(proofPath, data, 0o600))
	_, err = run(t, "verify", "--config", verifier, "--proof", proofPath)
	require.Error(t, err)

	// Hash and mode mismatches.
	sha3 := filepath.Join(dir, "sha3.toml")
	require.NoError(t, os.WriteFile(sha3, []byte("hash = \"sha3\"\n"), 0o600))
	_, err = run(t, "prove", "--config", sha3, "--key", keyPath, "--out", proofPath)
	require.NoError(t, err)
	_, err = run(t, "verify", "--config", sha3, "--proof", proofPath)
	require.NoError(t, err)
	_, err = run(t, "verify", "--proof", proofPath)
	require.Error(t, err)
	_, err = run(t, "verify", "--config", verifier, "--proof", proofPath)
	require.Error(t, err)
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errors.New("disk full") }

func TestEmitReportsCloseError(t *testing.T) {
	var w failingCloser
	err := emit(&w, []byte("data\n"))
	require.EqualError(t, err, "disk full")
	require.Equal(t, "data\n", w.String())

	var buf bytes.Buffer
	require.NoError(t, emit(nopCloser{&buf}, []byte("ok")))
	require.Equal(t, "ok", buf.String())
}
