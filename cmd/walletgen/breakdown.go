package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/entropy"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
	"github.com/olehkaliuzhnyi/walletgen/pkg/hexutil"
)

var breakdown = cli.Command{
	Name:  "breakdown",
	Usage: "explain how entropy maps to words, or what each level of a path means",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "entropy",
			Usage: "hex encoded entropy to split into 11-bit words",
		},
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "mnemonic to split back into 11-bit words",
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "derivation path to describe",
		},
	},
	Action: breakdownAction,
}

type wordBreakdown struct {
	Entropy      string           `json:"entropy"`
	Checksum     string           `json:"checksum"`
	ChecksumBits int              `json:"checksum_bits"`
	Words        []mnemonic.Chunk `json:"words"`
}

type pathLevel struct {
	Segment string `json:"segment"`
	Name    string `json:"name"`
	Detail  string `json:"detail,omitempty"`
}

func breakdownAction(ctx *cli.Context) error {
	switch {
	case ctx.IsSet("path"):
		return describePath(ctx, ctx.String("path"))
	case ctx.IsSet("entropy"):
		raw, err := hexutil.Decode(ctx.String("entropy"))
		if err != nil {
			return usageError(ctx, fmt.Sprintf("bad --entropy: %v", err))
		}
		ent, err := entropy.FromBytes(raw)
		if err != nil {
			return err
		}
		defer ent.Zero()
		return describeEntropy(ctx, ent)
	case ctx.IsSet("mnemonic"):
		ent, err := mnemonic.Decode(mnemonic.Parse(ctx.String("mnemonic")))
		if err != nil {
			return err
		}
		defer ent.Zero()
		return describeEntropy(ctx, ent)
	}
	return usageError(ctx, "one of --entropy, --mnemonic or --path is required")
}

func describeEntropy(ctx *cli.Context, ent entropy.Entropy) error {
	value, bits, err := mnemonic.Checksum(ent)
	if err != nil {
		return err
	}
	chunks, err := mnemonic.Breakdown(ent)
	if err != nil {
		return err
	}
	return printJSON(ctx, wordBreakdown{
		Entropy:      hexutil.Encode(ent.Bytes()),
		Checksum:     fmt.Sprintf("%0*b", bits, value),
		ChecksumBits: bits,
		Words:        chunks,
	})
}

func describePath(ctx *cli.Context, s string) error {
	p, err := hdkey.ParsePath(s)
	if err != nil {
		return err
	}
	levels := p.Describe()
	out := make([]pathLevel, len(levels))
	for i, l := range levels {
		out[i] = pathLevel{Segment: l.Segment.String(), Name: l.Name, Detail: l.Detail}
	}
	return printJSON(ctx, out)
}
