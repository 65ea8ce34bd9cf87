// Package wallet renders derived public keys as per-network addresses.
package wallet

import (
	"context"
	"fmt"

	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/pipeline"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
	"github.com/olehkaliuzhnyi/walletgen/pkg/hexutil"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

// Generator defines the per-network address encoding.
// Each network implements this on top of the shared BIP-44 derivation.
type Generator interface {
	// Network returns which blockchain this generator supports
	Network() models.Network

	// CoinType is the BIP-44 coin type level of the derivation path
	CoinType() uint32

	// Encode renders the address and the public key form the network uses
	Encode(pub pubkey.PublicKey) (addr string, pubBytes []byte, err error)
}

// New returns the generator for n.
func New(n models.Network) (Generator, error) {
	switch n {
	case models.NetworkETH:
		return NewETHGenerator(), nil
	case models.NetworkBTC:
		return NewBTCGenerator(), nil
	case models.NetworkTRX:
		return NewTRXGenerator(), nil
	}
	return nil, fmt.Errorf("unsupported network %q", n)
}

// Path returns m/44'/coin'/account'/0/index for g.
func Path(g Generator, account, index uint32) hdkey.Path {
	return hdkey.BIP44(g.CoinType(), account, hdkey.ChangeExternal, index)
}

// GenerateFromSeed derives the address at m/44'/coin'/0'/0/index from a BIP-39 seed.
func GenerateFromSeed(g Generator, seed []byte, index uint32) (*models.DerivedAddress, error) {
	master, err := hdkey.NewMaster(seed)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	defer master.Zero()
	return Generate(g, master, index)
}

// Generate derives the address at m/44'/coin'/0'/0/index below master.
func Generate(g Generator, master *hdkey.ExtendedKey, index uint32) (*models.DerivedAddress, error) {
	path := Path(g, 0, index)
	key, err := master.DerivePath(path)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer key.Zero()

	pub, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	return describe(g, path, pub)
}

// Range derives count consecutive addresses of one account starting at
// index start. Keys are derived in parallel.
func Range(ctx context.Context, g Generator, master *hdkey.ExtendedKey, account, start, count uint32) ([]*models.DerivedAddress, error) {
	paths := make([]hdkey.Path, count)
	for i := range paths {
		paths[i] = Path(g, account, start+uint32(i))
	}
	derived, err := pipeline.DeriveMany(ctx, master, paths)
	if err != nil {
		return nil, err
	}

	out := make([]*models.DerivedAddress, len(derived))
	for i, d := range derived {
		out[i], err = describe(g, d.Path, d.PublicKey)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func describe(g Generator, path hdkey.Path, pub pubkey.PublicKey) (*models.DerivedAddress, error) {
	addr, pubBytes, err := g.Encode(pub)
	if err != nil {
		return nil, fmt.Errorf("encode %s address: %w", g.Network(), err)
	}
	return &models.DerivedAddress{
		Network:        g.Network(),
		Address:        addr,
		DerivationPath: path.String(),
		PublicKey:      hexutil.Encode(pubBytes),
	}, nil
}
