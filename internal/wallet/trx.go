package wallet

import (
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

const trxAddressVersion = 0x41

// TRXGenerator generates TRON addresses using BIP-44 derivation.
// Derivation path: m/44'/195'/0'/0/{index}
// TRON hashes keys like Ethereum but encodes the address with Base58Check.
type TRXGenerator struct{}

func NewTRXGenerator() *TRXGenerator {
	return &TRXGenerator{}
}

func (g *TRXGenerator) Network() models.Network {
	return models.NetworkTRX
}

func (g *TRXGenerator) CoinType() uint32 {
	return hdkey.CoinTypeTRX
}

// Encode returns Base58Check(0x41 || Keccak256(x || y)[12:]).
func (g *TRXGenerator) Encode(pub pubkey.PublicKey) (string, []byte, error) {
	addr, err := address.FromPublicKey(pub)
	if err != nil {
		return "", nil, err
	}
	return base58.CheckEncode(addr.Bytes(), trxAddressVersion), pub.Bytes(), nil
}
