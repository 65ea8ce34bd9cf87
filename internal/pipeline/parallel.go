package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
)

// Derivation is the public output of one path. It holds no private material.
type Derivation struct {
	Path      hdkey.Path
	PublicKey pubkey.PublicKey
	Address   address.Address
}

// DeriveMany derives every path from master concurrently. master is only
// read; each worker derives its own key and scrubs it before returning.
// Results keep the order of paths.
func DeriveMany(ctx context.Context, master *hdkey.ExtendedKey, paths []hdkey.Path) ([]Derivation, error) {
	for i, p := range paths {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
	}

	out := make([]Derivation, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := deriveOne(master, p)
			if err != nil {
				return fmt.Errorf("derive %s: %w", p, err)
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Pipeline.Debug().Int("count", len(paths)).Msg("derived addresses")
	return out, nil
}

func deriveOne(master *hdkey.ExtendedKey, p hdkey.Path) (Derivation, error) {
	key, err := master.DerivePath(p)
	if err != nil {
		return Derivation{}, err
	}
	defer key.Zero()

	pub, err := key.PublicKey()
	if err != nil {
		return Derivation{}, err
	}
	addr, err := address.FromPublicKey(pub)
	if err != nil {
		return Derivation{}, err
	}
	return Derivation{Path: p, PublicKey: pub, Address: addr}, nil
}
