// Package pipeline composes the wallet stages into a single run:
// entropy, mnemonic, seed, master key, derived key, public key, address.
package pipeline

import (
	"fmt"

	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/internal/entropy"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/seed"
	"github.com/olehkaliuzhnyi/walletgen/pkg/hexutil"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

// Request holds the caller-supplied inputs of a run.
type Request struct {
	// EntropyBits is the size of fresh entropy to draw. Ignored when Entropy is set.
	EntropyBits int
	// Entropy overrides the random source.
	Entropy []byte
	// Path is the derivation path, e.g. "m/44'/60'/0'/0/0". It is required.
	Path string
	// Passphrase is the optional BIP-39 passphrase.
	Passphrase string
}

// Result holds every intermediate value of a run. It owns key material;
// call Zero once it has been rendered.
type Result struct {
	Entropy      entropy.Entropy
	Checksum     uint8
	ChecksumBits int
	Mnemonic     mnemonic.Mnemonic
	Seed         *seed.Seed
	Path         hdkey.Path
	Master       *hdkey.ExtendedKey
	Derived      *hdkey.ExtendedKey
	PublicKey    pubkey.PublicKey
	Hash         []byte
	Address      address.Address
}

// Generate runs the full pipeline from fresh (or overridden) entropy.
// The path is validated before any entropy is read.
func Generate(src *entropy.Source, req Request) (*Result, error) {
	path, err := hdkey.ParsePath(req.Path)
	if err != nil {
		return nil, err
	}

	var ent entropy.Entropy
	if req.Entropy != nil {
		ent, err = entropy.FromBytes(req.Entropy)
	} else {
		ent, err = src.Generate(req.EntropyBits)
	}
	if err != nil {
		return nil, fmt.Errorf("entropy: %w", err)
	}

	m, err := mnemonic.Encode(ent)
	if err != nil {
		ent.Zero()
		return nil, fmt.Errorf("encode mnemonic: %w", err)
	}
	return run(ent, m, path, req.Passphrase)
}

// FromMnemonic runs the pipeline from an existing mnemonic. The mnemonic must
// pass checksum validation.
func FromMnemonic(m mnemonic.Mnemonic, pathStr, passphrase string) (*Result, error) {
	path, err := hdkey.ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	ent, err := mnemonic.Decode(m)
	if err != nil {
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	return run(ent, m, path, passphrase)
}

func run(ent entropy.Entropy, m mnemonic.Mnemonic, path hdkey.Path, passphrase string) (*Result, error) {
	defer log.Benchmark(log.Pipeline, "pipeline")()

	r := &Result{Entropy: ent, Mnemonic: m, Path: path}
	var err error
	r.Checksum, r.ChecksumBits, err = mnemonic.Checksum(ent)
	if err != nil {
		r.Zero()
		return nil, fmt.Errorf("checksum: %w", err)
	}

	r.Seed = seed.Derive(m, passphrase)

	r.Master, err = hdkey.NewMaster(r.Seed[:])
	if err != nil {
		r.Zero()
		return nil, fmt.Errorf("master key: %w", err)
	}
	r.Derived, err = r.Master.DerivePath(path)
	if err != nil {
		r.Zero()
		return nil, fmt.Errorf("derive %s: %w", path, err)
	}

	r.PublicKey, err = r.Derived.PublicKey()
	if err != nil {
		r.Zero()
		return nil, fmt.Errorf("public key: %w", err)
	}
	r.Hash, err = address.HashPublicKey(r.PublicKey.XY())
	if err != nil {
		r.Zero()
		return nil, err
	}
	r.Address, err = address.FromHash(r.Hash)
	if err != nil {
		r.Zero()
		return nil, err
	}

	log.Pipeline.Info().
		Str("path", path.String()).
		Int("entropy_bits", ent.BitLen()).
		Int("words", m.Len()).
		Bool("passphrase", passphrase != "").
		Str("address", r.Address.String()).
		Msg("wallet generated")
	return r, nil
}

// ChecksumString renders the mnemonic checksum as a fixed-width bit string.
func (r *Result) ChecksumString() string {
	return fmt.Sprintf("%0*b", r.ChecksumBits, r.Checksum)
}

// Steps lists the labelled intermediate values in pipeline order.
func (r *Result) Steps() []models.Step {
	return []models.Step{
		{Label: "Entropy", Value: hexutil.Encode(r.Entropy.Bytes())},
		{Label: "Checksum", Value: r.ChecksumString()},
		{Label: "Mnemonic Phrase", Value: r.Mnemonic.String()},
		{Label: "Seed", Value: hexutil.Encode(r.Seed[:])},
		{Label: "Master Private Key", Value: hexutil.Encode(r.Master.PrivateKey())},
		{Label: fmt.Sprintf("Derived Private Key (Path: %s)", r.Path), Value: hexutil.Encode(r.Derived.PrivateKey())},
		{Label: "Public Key", Value: hexutil.Encode(r.PublicKey.Bytes())},
		{Label: "Keccak-256 Hash", Value: hexutil.Encode(r.Hash)},
		{Label: "Raw Address", Value: r.Address.Hex()},
		{Label: "Checksum Address", Value: r.Address.String()},
	}
}

// Report renders the run for display or JSON output.
func (r *Result) Report() *models.WalletReport {
	return &models.WalletReport{
		Entropy:            hexutil.Encode(r.Entropy.Bytes()),
		Checksum:           r.ChecksumString(),
		Mnemonic:           r.Mnemonic.String(),
		Seed:               hexutil.Encode(r.Seed[:]),
		DerivationPath:     r.Path.String(),
		MasterPrivateKey:   hexutil.Encode(r.Master.PrivateKey()),
		MasterExtendedKey:  r.Master.String(),
		DerivedPrivateKey:  hexutil.Encode(r.Derived.PrivateKey()),
		DerivedExtendedKey: r.Derived.String(),
		PublicKey:          hexutil.Encode(r.PublicKey.Bytes()),
		Keccak256:          hexutil.Encode(r.Hash),
		Address:            r.Address.Hex(),
		ChecksumAddress:    r.Address.String(),
		Steps:              r.Steps(),
	}
}

// Zero scrubs the key material held by r. Mnemonic words are Go strings and
// cannot be overwritten.
func (r *Result) Zero() {
	r.Entropy.Zero()
	if r.Seed != nil {
		r.Seed.Zero()
	}
	if r.Master != nil {
		r.Master.Zero()
	}
	if r.Derived != nil {
		r.Derived.Zero()
	}
}
