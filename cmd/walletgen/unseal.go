package main

import (
	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/keystore"
)

var unseal = cli.Command{
	Name:  "unseal",
	Usage: "decrypt a keystore file and print the mnemonic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Usage:    "keystore file written by generate --out",
			Required: true,
		},
		passwordFlag(),
	},
	Action: unsealAction,
}

type unsealed struct {
	Mnemonic string `json:"mnemonic"`
	Address  string `json:"address,omitempty"`
}

func unsealAction(ctx *cli.Context) error {
	sealed, err := keystore.ReadFile(ctx.String("file"))
	if err != nil {
		return err
	}
	password, err := readPassword(ctx, false)
	if err != nil {
		return err
	}
	defer func() {
		for i := range password {
			password[i] = 0
		}
	}()

	m, err := keystore.Open(sealed, password)
	if err != nil {
		return err
	}
	return printJSON(ctx, unsealed{Mnemonic: m.String(), Address: sealed.Address})
}
