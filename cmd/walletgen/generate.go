package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/entropy"
	"github.com/olehkaliuzhnyi/walletgen/internal/keystore"
	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
	"github.com/olehkaliuzhnyi/walletgen/internal/pipeline"
	"github.com/olehkaliuzhnyi/walletgen/pkg/hexutil"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

var generate = cli.Command{
	Name:  "generate",
	Usage: "generate a new wallet from fresh entropy and print every step",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "bits",
			Usage: "entropy size: 128, 160, 192, 224 or 256 (defaults to WALLETGEN_ENTROPY_BITS)",
		},
		&cli.StringFlag{
			Name:  "entropy",
			Usage: "hex encoded entropy to use instead of the random source",
		},
		pathFlag(),
		passphraseFlag(),
		askPassphraseFlag(),
		recordFlag(),
		stepsFlag(),
		outFlag(),
		passwordFlag(),
	},
	Action: generateAction,
}

func stepsFlag() cli.Flag {
	return &cli.BoolFlag{Name: "steps", Usage: "print the labelled steps as text instead of JSON"}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Usage: "seal the mnemonic into a new keystore file at this path"}
}

func generateAction(ctx *cli.Context) error {
	cfg := getConfig(ctx)

	req := pipeline.Request{
		EntropyBits: cfg.EntropyBits,
		Path:        derivationPath(ctx),
	}
	if ctx.IsSet("bits") {
		req.EntropyBits = ctx.Int("bits")
	}
	if ctx.IsSet("entropy") {
		ent, err := hexutil.Decode(ctx.String("entropy"))
		if err != nil {
			return usageError(ctx, fmt.Sprintf("bad --entropy: %v", err))
		}
		req.Entropy = ent
	}
	if !entropy.ValidBits(req.EntropyBits) && req.Entropy == nil {
		return usageError(ctx, fmt.Sprintf("--bits must be 128-256 in steps of 32, got %d", req.EntropyBits))
	}

	passphrase, err := readPassphrase(ctx)
	if err != nil {
		return err
	}
	req.Passphrase = passphrase

	res, err := pipeline.Generate(entropy.Default(), req)
	if err != nil {
		return err
	}
	defer res.Zero()

	return finishRun(ctx, res)
}

// finishRun prints res, records its address and optionally seals the
// mnemonic. Shared by generate and derive.
func finishRun(ctx *cli.Context, res *pipeline.Result) error {
	if ctx.Bool("steps") {
		for _, s := range res.Steps() {
			if _, err := fmt.Fprintf(ctx.App.Writer, "%-40s %s\n", s.Label+":", s.Value); err != nil {
				return err
			}
		}
	} else if err := printJSON(ctx, res.Report()); err != nil {
		return err
	}

	if ctx.Bool("record") {
		err := recordAddresses(ctx, &models.DerivedAddress{
			Network:        models.NetworkETH,
			Address:        res.Address.String(),
			DerivationPath: res.Path.String(),
			PublicKey:      hexutil.Encode(res.PublicKey.Bytes()),
		})
		if err != nil {
			return err
		}
	}

	if out := ctx.String("out"); out != "" {
		return sealTo(ctx, out, res.Mnemonic, res.Address.String())
	}
	return nil
}

func recordAddresses(ctx *cli.Context, addrs ...*models.DerivedAddress) error {
	store, err := openStore(getConfig(ctx))
	if err != nil {
		return fmt.Errorf("open address book: %w", err)
	}
	defer store.Close()

	for _, a := range addrs {
		if err := store.Put(a); err != nil {
			return fmt.Errorf("record %s: %w", a.Address, err)
		}
	}
	log.CLI.Debug().Int("count", len(addrs)).Msg("addresses recorded")
	return nil
}

func sealTo(ctx *cli.Context, path string, m mnemonic.Mnemonic, addr string) error {
	cfg := getConfig(ctx)

	password, err := readPassword(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		for i := range password {
			password[i] = 0
		}
	}()

	sealed, err := keystore.Seal(m, password, cfg.KDFParams(), addr)
	if err != nil {
		return err
	}
	if err := keystore.WriteFile(path, sealed); err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.App.ErrWriter, "mnemonic sealed to %s\n", path)
	return err
}
