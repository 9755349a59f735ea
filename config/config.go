// Package config loads group and protocol parameters from TOML and turns
// them into the concrete group, hasher and challenge generator.
package config

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/bogacyigitbasi/sigma-protocol/bjj"
	"github.com/bogacyigitbasi/sigma-protocol/challenge"
	"github.com/bogacyigitbasi/sigma-protocol/edwards"
	"github.com/bogacyigitbasi/sigma-protocol/group"
	"github.com/bogacyigitbasi/sigma-protocol/modp"
	"github.com/bogacyigitbasi/sigma-protocol/ristretto"
)

// Backend names.
const (
	ModP         = "modp"
	BabyJubJub   = "bjj"
	Ristretto255 = "ristretto255"
	Ed25519      = "ed25519"
)

// Backends lists the accepted backend names.
var Backends = []string{ModP, BabyJubJub, Ristretto255, Ed25519}

// Parameters selects a group and a challenge mode. Integers are decimal
// or 0x-prefixed hexadecimal strings so that arbitrarily large moduli
// survive the TOML round trip.
type Parameters struct {
	Backend   string `toml:"backend"`
	Modulus   string `toml:"modulus,omitempty"`
	Generator string `toml:"generator,omitempty"`
	Order     string `toml:"order,omitempty"`
	Hash      string `toml:"hash"`
	Mode      string `toml:"mode"`
	Label     string `toml:"label,omitempty"`
}

// Default returns Fiat-Shamir over SHA-256 on ristretto255.
func Default() *Parameters {
	return &Parameters{
		Backend: Ristretto255,
		Hash:    "sha256",
		Mode:    challenge.FiatShamirMode.String(),
		Label:   challenge.DefaultTranscriptLabel,
	}
}

// Load reads parameters from a TOML file. Keys missing from the file keep
// their default values.
func Load(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes TOML parameters and validates them. Unknown keys are an
// error.
func Parse(data string) (*Parameters, error) {
	p := Default()
	md, err := toml.Decode(data, p)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode writes p as TOML.
func (p *Parameters) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(p)
}

// FromModP describes an existing modular group.
func FromModP(g *modp.Group, mode challenge.Mode) *Parameters {
	p := Default()
	p.Backend = ModP
	p.Modulus = "0x" + g.Modulus().Text(16)
	p.Generator = "0x" + g.Generator().(*modp.Point).BigInt().Text(16)
	p.Order = "0x" + g.Order().Text(16)
	p.Mode = mode.String()
	return p
}

// Validate checks every field and reports all problems at once.
func (p *Parameters) Validate() error {
	var result *multierror.Error

	switch p.Backend {
	case ModP:
		if p.Modulus == "" {
			result = multierror.Append(result, errors.New("modp backend requires a modulus"))
		} else if _, err := parseInt(p.Modulus); err != nil {
			result = multierror.Append(result, fmt.Errorf("modulus: %w", err))
		}
		if p.Generator == "" {
			result = multierror.Append(result, errors.New("modp backend requires a generator"))
		} else if _, err := parseInt(p.Generator); err != nil {
			result = multierror.Append(result, fmt.Errorf("generator: %w", err))
		}
		if p.Order != "" {
			if _, err := parseInt(p.Order); err != nil {
				result = multierror.Append(result, fmt.Errorf("order: %w", err))
			}
		}
	case BabyJubJub, Ristretto255, Ed25519:
		if p.Modulus != "" || p.Generator != "" || p.Order != "" {
			result = multierror.Append(result, fmt.Errorf("%s backend has fixed parameters; modulus, generator and order must be empty", p.Backend))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown backend %q, want one of %s", p.Backend, strings.Join(Backends, ", ")))
	}

	if _, err := challenge.HasherByName(p.Hash); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := challenge.ParseMode(p.Mode); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Group builds the configured group. Modular parameters are checked by
// [modp.New].
func (p *Parameters) Group() (group.Group, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.Backend {
	case BabyJubJub:
		return &bjj.BJJ{}, nil
	case Ristretto255:
		return &ristretto.Ristretto{}, nil
	case Ed25519:
		return &edwards.Ed25519{}, nil
	}

	modulus, _ := parseInt(p.Modulus)
	gen, _ := parseInt(p.Generator)
	var order *big.Int
	if p.Order != "" {
		order, _ = parseInt(p.Order)
	}
	return modp.New(modulus, gen, order)
}

// Hasher returns the configured hash function.
func (p *Parameters) Hasher() (challenge.Hasher, error) {
	return challenge.HasherByName(p.Hash)
}

// ChallengeMode returns the configured challenge mode.
func (p *Parameters) ChallengeMode() (challenge.Mode, error) {
	return challenge.ParseMode(p.Mode)
}

// ChallengeGenerator returns the generator for the configured mode.
// Interactive challenges are drawn from rng.
func (p *Parameters) ChallengeGenerator(rng io.Reader) (challenge.Generator, error) {
	mode, err := p.ChallengeMode()
	if err != nil {
		return nil, err
	}
	switch mode {
	case challenge.Interactive:
		return &challenge.RandomGenerator{Rand: rng}, nil
	case challenge.TranscriptMode:
		return &challenge.TranscriptGenerator{Label: p.Label}, nil
	default:
		h, err := p.Hasher()
		if err != nil {
			return nil, err
		}
		return &challenge.FiatShamirGenerator{Hasher: h}, nil
	}
}

func parseInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %q as an integer", group.ErrInvalidParameters, s)
	}
	return v, nil
}
