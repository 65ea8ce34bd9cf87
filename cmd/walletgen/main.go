package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/config"
	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/internal/storage"
)

const configKey = "config"

func main() {
	app := newApp(os.Stdout, os.Stdin)
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp(out io.Writer, in io.Reader) *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "walletgen"
	app.Usage = "derive EOA wallets: entropy, BIP-39 mnemonic, BIP-32/44 keys, EIP-55 address"
	app.Writer = out
	app.Reader = in
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn, error or disabled (overrides WALLETGEN_LOG_LEVEL)",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory for the address book (overrides WALLETGEN_DATADIR)",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "address book backend: badger or memory (overrides WALLETGEN_STORE)",
		},
	}
	app.Before = loadConfig
	app.Commands = append(
		app.Commands,
		&generate,
		&derive,
		&checksum,
		&validate,
		&breakdown,
		&addresses,
		&history,
		&unseal,
	)
	return app
}

func loadConfig(ctx *cli.Context) error {
	cfg := config.FromEnv()
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("datadir") {
		cfg.Datadir = ctx.String("datadir")
	}
	if ctx.IsSet("store") {
		cfg.Store = ctx.String("store")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	if err := log.Init(cfg.LogLevel, cfg.LogJSON, cfg.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	if ctx.App.Metadata == nil {
		ctx.App.Metadata = map[string]interface{}{}
	}
	ctx.App.Metadata[configKey] = cfg
	return nil
}

func getConfig(ctx *cli.Context) config.Config {
	cfg, ok := ctx.App.Metadata[configKey].(config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}

// openStore opens the configured address book. The caller closes it.
func openStore(cfg config.Config) (storage.AddressStore, error) {
	if cfg.Store == config.StoreMemory {
		return storage.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(cfg.DBDir(), 0o700); err != nil {
		return nil, fmt.Errorf("create datadir: %w", err)
	}
	return storage.NewBadger(cfg.DBDir())
}

func printJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(out))
	return err
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
	reason  string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s: %s", e.command, e.reason)
}

func usageError(ctx *cli.Context, reason string) error {
	return &invalidUsageError{ctx: ctx, command: ctx.Command.Name, reason: reason}
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_, _ = fmt.Fprintf(os.Stderr, "[walletgen] %v\n", err)
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[walletgen] %v\n", err)
	}
	os.Exit(1)
}
