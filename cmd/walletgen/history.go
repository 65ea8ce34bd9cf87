package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

var history = cli.Command{
	Name:  "history",
	Usage: "list addresses recorded in the address book",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "network",
			Usage: "only list ETH, BTC or TRX addresses",
		},
		&cli.StringFlag{
			Name:  "contains",
			Usage: "report whether this address has been recorded",
		},
	},
	Action: historyAction,
}

func historyAction(ctx *cli.Context) error {
	var network models.Network
	if ctx.IsSet("network") {
		n, ok := models.ParseNetwork(ctx.String("network"))
		if !ok {
			return usageError(ctx, fmt.Sprintf("unknown network %q", ctx.String("network")))
		}
		network = n
	}

	store, err := openStore(getConfig(ctx))
	if err != nil {
		return fmt.Errorf("open address book: %w", err)
	}
	defer store.Close()

	if addr := ctx.String("contains"); addr != "" {
		found, err := store.Contains(addr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, found)
		return err
	}

	list, err := store.List(network)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*models.DerivedAddress{}
	}
	return printJSON(ctx, list)
}
