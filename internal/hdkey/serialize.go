package hdkey

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/tyler-smith/go-bip32"

	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
)

// Mainnet BIP-32 version bytes.
var (
	VersionPrivate = []byte{0x04, 0x88, 0xad, 0xe4}
	VersionPublic  = []byte{0x04, 0x88, 0xb2, 0x1e}
)

const serializedSize = 78

// String returns the Base58Check xprv encoding. The result is key material.
func (k *ExtendedKey) String() string {
	key := make([]byte, 0, keySize+1)
	key = append(key, 0x00)
	key = append(key, k.privateKey[:]...)
	defer wipe(key)
	return base58Check(k.serialize(VersionPrivate, key))
}

// PublicString returns the Base58Check xpub encoding.
func (k *ExtendedKey) PublicString() (string, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return "", err
	}
	return base58Check(k.serialize(VersionPublic, pub.Compressed())), nil
}

func (k *ExtendedKey) serialize(version, key []byte) []byte {
	out := make([]byte, 0, serializedSize)
	out = append(out, version...)
	out = append(out, k.depth)
	out = append(out, k.parentFingerprint[:]...)
	out = binary.BigEndian.AppendUint32(out, k.childIndex)
	out = append(out, k.chainCode[:]...)
	out = append(out, key...)
	return out
}

// ParseExtended imports a mainnet xprv string.
func ParseExtended(s string) (*ExtendedKey, error) {
	key, err := bip32.B58Deserialize(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if !key.IsPrivate || !bytes.Equal(key.Version, VersionPrivate) {
		return nil, fmt.Errorf("%w: not a mainnet extended private key", ErrInvalidParameter)
	}

	// go-bip32 may keep the 0x00 padding byte of private keys.
	raw := key.Key
	if len(raw) == keySize+1 && raw[0] == 0 {
		raw = raw[1:]
	}
	if err := pubkey.ValidateScalar(raw); err != nil {
		return nil, err
	}

	k := &ExtendedKey{
		depth:      key.Depth,
		childIndex: binary.BigEndian.Uint32(key.ChildNumber),
	}
	copy(k.privateKey[:], raw)
	copy(k.chainCode[:], key.ChainCode)
	copy(k.parentFingerprint[:], key.FingerPrint)
	wipe(key.Key)
	return k, nil
}

// base58Check encodes payload with its four-byte double SHA-256 checksum.
// CheckEncode takes a single version byte, so the first byte of the
// four-byte BIP-32 version goes in that slot.
func base58Check(payload []byte) string {
	return base58.CheckEncode(payload[1:], payload[0])
}
