package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
)

const stdinKey = "stdin"

// readSecret prompts on stderr and reads one line without echo when the
// input is a terminal.
func readSecret(ctx *cli.Context, prompt string) ([]byte, error) {
	fmt.Fprint(ctx.App.ErrWriter, prompt)

	if f, ok := ctx.App.Reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(ctx.App.ErrWriter) // newline after hidden input
		if err != nil {
			return nil, err
		}
		return secret, nil
	}

	// Fallback for non-interactive environments
	line, err := stdin(ctx).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// stdin shares one buffered reader across prompts so piped input is not lost.
func stdin(ctx *cli.Context) *bufio.Reader {
	if r, ok := ctx.App.Metadata[stdinKey].(*bufio.Reader); ok {
		return r
	}
	r := bufio.NewReader(ctx.App.Reader)
	ctx.App.Metadata[stdinKey] = r
	return r
}

// readPassword asks twice when confirm is set.
func readPassword(ctx *cli.Context, confirm bool) ([]byte, error) {
	if ctx.IsSet("password") {
		return []byte(ctx.String("password")), nil
	}
	pw, err := readSecret(ctx, "Password: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return pw, nil
	}
	again, err := readSecret(ctx, "Repeat password: ")
	if err != nil {
		return nil, err
	}
	if string(pw) != string(again) {
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

// readPassphrase returns the BIP-39 passphrase from --passphrase, a prompt
// when --ask-passphrase is set, or the empty string.
func readPassphrase(ctx *cli.Context) (string, error) {
	if ctx.IsSet("passphrase") {
		return ctx.String("passphrase"), nil
	}
	if !ctx.Bool("ask-passphrase") {
		return "", nil
	}
	p, err := readSecret(ctx, "BIP-39 passphrase: ")
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// readMnemonic takes --mnemonic or prompts for it.
func readMnemonic(ctx *cli.Context) (mnemonic.Mnemonic, error) {
	phrase := ctx.String("mnemonic")
	if phrase == "" {
		raw, err := readSecret(ctx, "Mnemonic: ")
		if err != nil {
			return mnemonic.Mnemonic{}, err
		}
		phrase = string(raw)
	}
	m := mnemonic.Parse(phrase)
	if err := mnemonic.Validate(m); err != nil {
		var unknown *mnemonic.UnknownWordError
		if errors.As(err, &unknown) {
			return mnemonic.Mnemonic{}, fmt.Errorf("word %d %q is not in the word list: %w", unknown.Position+1, unknown.Word, err)
		}
		return mnemonic.Mnemonic{}, err
	}
	return m, nil
}

// Flags shared by several commands. Each call returns a fresh flag.
func passphraseFlag() cli.Flag {
	return &cli.StringFlag{Name: "passphrase", Usage: "optional BIP-39 passphrase"}
}

func askPassphraseFlag() cli.Flag {
	return &cli.BoolFlag{Name: "ask-passphrase", Usage: "prompt for the BIP-39 passphrase without echo"}
}

func mnemonicFlag() cli.Flag {
	return &cli.StringFlag{Name: "mnemonic", Usage: "mnemonic phrase (prompted for when omitted)"}
}

func pathFlag() cli.Flag {
	return &cli.StringFlag{Name: "path", Usage: "derivation path (defaults to WALLETGEN_DERIVATION_PATH)"}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{Name: "password", Usage: "keystore password (prompted for when omitted)"}
}

func recordFlag() cli.Flag {
	return &cli.BoolFlag{Name: "record", Usage: "save the derived public address to the address book", Value: true}
}

func derivationPath(ctx *cli.Context) string {
	if ctx.IsSet("path") {
		return ctx.String("path")
	}
	return getConfig(ctx).DerivationPath
}
