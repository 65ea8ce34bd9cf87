package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
)

var validate = cli.Command{
	Name:  "validate",
	Usage: "check a mnemonic checksum, or the EIP-55 case pattern of an address",
	Flags: []cli.Flag{
		mnemonicFlag(),
		&cli.StringFlag{
			Name:  "address",
			Usage: "validate this address instead of a mnemonic",
		},
	},
	Action: validateAction,
}

func validateAction(ctx *cli.Context) error {
	if ctx.IsSet("address") {
		return validateAddress(ctx, ctx.String("address"))
	}

	m, err := readMnemonic(ctx)
	if err != nil {
		return err
	}
	ent, err := mnemonic.Decode(m)
	if err != nil {
		return err
	}
	defer ent.Zero()

	_, err = fmt.Fprintf(ctx.App.Writer, "valid mnemonic: %d words, %d bits of entropy\n", m.Len(), ent.BitLen())
	return err
}

func validateAddress(ctx *cli.Context, s string) error {
	a, err := address.Parse(s)
	if err != nil {
		return err
	}
	if address.IsChecksummed(s) {
		_, err = fmt.Fprintf(ctx.App.Writer, "valid checksummed address %s\n", a)
		return err
	}
	_, err = fmt.Fprintf(ctx.App.Writer, "valid address without checksum, checksummed form is %s\n", a)
	return err
}
