package models

// Network represents a blockchain network
type Network string

// Supported blockchain networks.
const (
	NetworkBTC Network = "BTC"
	NetworkETH Network = "ETH"
	NetworkTRX Network = "TRX"
)

// ParseNetwork maps a case-sensitive ticker to a Network.
func ParseNetwork(s string) (Network, bool) {
	switch Network(s) {
	case NetworkBTC, NetworkETH, NetworkTRX:
		return Network(s), true
	}
	return "", false
}

// DerivedAddress holds a generated address with its derivation path.
// It only ever carries public material.
type DerivedAddress struct {
	Network        Network `json:"network"`
	Address        string  `json:"address"`
	DerivationPath string  `json:"derivation_path"`
	PublicKey      string  `json:"public_key"`
}

// Step is one labelled intermediate value of a pipeline run.
type Step struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// WalletReport is the display form of a full pipeline run. Byte buffers are
// 0x-prefixed lowercase hex.
type WalletReport struct {
	Entropy            string `json:"entropy,omitempty"`
	Checksum           string `json:"checksum,omitempty"`
	Mnemonic           string `json:"mnemonic"`
	Seed               string `json:"seed"`
	DerivationPath     string `json:"derivation_path"`
	MasterPrivateKey   string `json:"master_private_key"`
	MasterExtendedKey  string `json:"master_xprv"`
	DerivedPrivateKey  string `json:"derived_private_key"`
	DerivedExtendedKey string `json:"derived_xprv"`
	PublicKey          string `json:"public_key"`
	Keccak256          string `json:"keccak256"`
	Address            string `json:"address"`
	ChecksumAddress    string `json:"checksum_address"`
	Steps              []Step `json:"steps"`
}
