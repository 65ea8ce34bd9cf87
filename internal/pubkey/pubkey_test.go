package pubkey

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	// secp256k1 group order n.
	curveOrder = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"

	generatorUncompressed = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func scalar(v byte) []byte {
	b := make([]byte, PrivateKeySize)
	b[PrivateKeySize-1] = v
	return b
}

func TestDerive_Generator(t *testing.T) {
	pk, err := Derive(scalar(1))
	require.NoError(t, err)
	require.Equal(t, generatorUncompressed, hex.EncodeToString(pk.Bytes()))
	require.Equal(t, generatorUncompressed[2:], hex.EncodeToString(pk.XY()))
	require.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", hex.EncodeToString(pk.Compressed()))
	require.False(t, pk.IsZero())
}

func TestDerive_KnownKey(t *testing.T) {
	priv := mustHex(t, "1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727")
	pk, err := Derive(priv)
	require.NoError(t, err)
	require.Equal(t,
		"0437b0bb7a8288d38ed49a524b5dc98cff3eb5ca824c9f9dc0dfdb3d9cd600f299a6179912b7451c09896c4098eca7ce6b2e58330672795e847c4d6af44e024230",
		hex.EncodeToString(pk.Bytes()))
}

func TestDerive_Deterministic(t *testing.T) {
	priv := bytes.Repeat([]byte{0x42}, PrivateKeySize)
	a, err := Derive(priv)
	require.NoError(t, err)
	b, err := Derive(priv)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDerive_InvalidScalars(t *testing.T) {
	order := mustHex(t, curveOrder)
	aboveOrder := mustHex(t, curveOrder)
	aboveOrder[PrivateKeySize-1]++
	orderMinusOne := mustHex(t, curveOrder)
	orderMinusOne[PrivateKeySize-1]--

	tests := []struct {
		name string
		priv []byte
		ok   bool
	}{
		{"zero", make([]byte, PrivateKeySize), false},
		{"order", order, false},
		{"above order", aboveOrder, false},
		{"all ones", bytes.Repeat([]byte{0xff}, PrivateKeySize), false},
		{"short", scalar(1)[1:], false},
		{"long", append(scalar(1), 0), false},
		{"one", scalar(1), true},
		{"order minus one", orderMinusOne, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive(tt.priv)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidPrivateKey)
		})
	}
}

func TestParse(t *testing.T) {
	full := mustHex(t, generatorUncompressed)

	for _, in := range [][]byte{full, full[1:], mustHex(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")} {
		pk, err := Parse(in)
		require.NoError(t, err)
		require.Equal(t, full, pk.Bytes())
	}

	bad := append([]byte(nil), full...)
	bad[64] ^= 0x01
	_, err := Parse(bad)
	require.ErrorIs(t, err, ErrInvalidPublicKey)

	_, err = Parse([]byte{0x04, 0x01})
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestCompressed_Parity(t *testing.T) {
	// 5G has an even y coordinate, 6G an odd one.
	tests := map[byte]byte{5: 0x02, 6: 0x03}
	for k, prefix := range tests {
		pk, err := Derive(scalar(k))
		require.NoError(t, err)
		require.Equal(t, prefix, pk.Compressed()[0])

		parsed, err := Parse(pk.Compressed())
		require.NoError(t, err)
		require.Equal(t, pk, parsed)
	}
}

func TestHash160(t *testing.T) {
	// HASH160 of the empty string.
	require.Equal(t, "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb", hex.EncodeToString(Hash160(nil)))
}

func TestZeroValue(t *testing.T) {
	require.True(t, PublicKey{}.IsZero())
}
