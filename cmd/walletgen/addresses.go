package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/seed"
	"github.com/olehkaliuzhnyi/walletgen/internal/wallet"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

var addresses = cli.Command{
	Name:  "addresses",
	Usage: "list consecutive receiving addresses of one account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "network",
			Usage: "ETH, BTC or TRX",
			Value: string(models.NetworkETH),
		},
		&cli.UintFlag{
			Name:  "account",
			Usage: "BIP-44 account index",
		},
		&cli.UintFlag{
			Name:  "start",
			Usage: "first address index",
		},
		&cli.UintFlag{
			Name:  "count",
			Usage: "number of addresses (defaults to WALLETGEN_ADDRESS_COUNT)",
		},
		mnemonicFlag(),
		passphraseFlag(),
		askPassphraseFlag(),
		recordFlag(),
	},
	Action: addressesAction,
}

func addressesAction(ctx *cli.Context) error {
	network, ok := models.ParseNetwork(ctx.String("network"))
	if !ok {
		return usageError(ctx, fmt.Sprintf("unknown network %q", ctx.String("network")))
	}
	gen, err := wallet.New(network)
	if err != nil {
		return err
	}

	count := uint(getConfig(ctx).AddressCount)
	if ctx.IsSet("count") {
		count = ctx.Uint("count")
	}
	account, start := ctx.Uint("account"), ctx.Uint("start")
	if count == 0 {
		return usageError(ctx, "--count must be positive")
	}
	limit := uint(hdkey.HardenedOffset)
	if account >= limit || start >= limit || start+count > limit {
		return usageError(ctx, "--account and address indexes must stay below 2^31")
	}

	m, err := readMnemonic(ctx)
	if err != nil {
		return err
	}
	passphrase, err := readPassphrase(ctx)
	if err != nil {
		return err
	}

	s := seed.Derive(m, passphrase)
	defer s.Zero()
	master, err := hdkey.NewMaster(s[:])
	if err != nil {
		return err
	}
	defer master.Zero()

	addrs, err := wallet.Range(ctx.Context, gen, master, uint32(account), uint32(start), uint32(count))
	if err != nil {
		return err
	}
	if err := printJSON(ctx, addrs); err != nil {
		return err
	}
	if ctx.Bool("record") {
		return recordAddresses(ctx, addrs...)
	}
	return nil
}
