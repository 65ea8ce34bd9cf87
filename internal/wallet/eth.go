package wallet

import (
	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

// ETHGenerator generates Ethereum addresses using BIP-44 derivation.
// Derivation path: m/44'/60'/0'/0/{index}
type ETHGenerator struct{}

// NewETHGenerator returns a new Ethereum address generator.
func NewETHGenerator() *ETHGenerator {
	return &ETHGenerator{}
}

// Network returns the Ethereum network identifier.
func (g *ETHGenerator) Network() models.Network {
	return models.NetworkETH
}

// CoinType returns 60.
func (g *ETHGenerator) CoinType() uint32 {
	return hdkey.CoinTypeETH
}

// Encode returns the EIP-55 checksummed address and the uncompressed key.
func (g *ETHGenerator) Encode(pub pubkey.PublicKey) (string, []byte, error) {
	// Ethereum address = last 20 bytes of Keccak256(x || y)
	addr, err := address.FromPublicKey(pub)
	if err != nil {
		return "", nil, err
	}
	return addr.String(), pub.Bytes(), nil
}
