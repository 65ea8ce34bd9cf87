package main

import (
	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/pipeline"
)

var derive = cli.Command{
	Name:  "derive",
	Usage: "recover a wallet from an existing mnemonic and print every step",
	Flags: []cli.Flag{
		mnemonicFlag(),
		pathFlag(),
		passphraseFlag(),
		askPassphraseFlag(),
		recordFlag(),
		stepsFlag(),
		outFlag(),
		passwordFlag(),
	},
	Action: deriveAction,
}

func deriveAction(ctx *cli.Context) error {
	m, err := readMnemonic(ctx)
	if err != nil {
		return err
	}
	passphrase, err := readPassphrase(ctx)
	if err != nil {
		return err
	}

	res, err := pipeline.FromMnemonic(m, derivationPath(ctx), passphrase)
	if err != nil {
		return err
	}
	defer res.Zero()

	return finishRun(ctx, res)
}
