package wallet

import (
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

const btcP2PKHVersion = 0x00

// BTCGenerator generates Bitcoin addresses using BIP-44 derivation.
// Derivation path: m/44'/0'/0'/0/{index}
// Only P2PKH (legacy 1...) addresses are produced.
type BTCGenerator struct{}

// NewBTCGenerator returns a new Bitcoin address generator.
func NewBTCGenerator() *BTCGenerator {
	return &BTCGenerator{}
}

// Network returns the Bitcoin network identifier.
func (g *BTCGenerator) Network() models.Network {
	return models.NetworkBTC
}

// CoinType returns 0.
func (g *BTCGenerator) CoinType() uint32 {
	return hdkey.CoinTypeBTC
}

// Encode returns Base58Check(0x00 || Hash160(compressed key)) and the compressed key.
func (g *BTCGenerator) Encode(pub pubkey.PublicKey) (string, []byte, error) {
	if pub.IsZero() {
		return "", nil, pubkey.ErrInvalidPublicKey
	}
	compressed := pub.Compressed()
	return base58.CheckEncode(pubkey.Hash160(compressed), btcP2PKHVersion), compressed, nil
}
