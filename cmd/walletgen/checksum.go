package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/pkg/hexutil"
)

var checksum = cli.Command{
	Name:      "checksum",
	Usage:     "print the EIP-55 checksummed form of an address",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "show the hash nibble that decided the case of every character",
		},
	},
	Action: checksumAction,
}

func checksumAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return usageError(ctx, "expected exactly one address")
	}
	sum, err := address.ChecksumHex(ctx.Args().First())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(ctx.App.Writer, hexutil.Prefix+sum); err != nil {
		return err
	}
	if !ctx.Bool("trace") {
		return nil
	}

	a, err := address.Parse(sum)
	if err != nil {
		return err
	}
	for _, d := range address.Trace(a) {
		rule := "keep"
		if d.Upper {
			rule = "upper"
		}
		if _, err := fmt.Fprintf(ctx.App.Writer, "%2d  %c  %x  %s\n", d.Position, d.Char, d.Nibble, rule); err != nil {
			return err
		}
	}
	return nil
}
