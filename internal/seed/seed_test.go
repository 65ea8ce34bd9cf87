package seed

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"

	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
)

const abandonAbout = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDerive_KnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		want       string
	}{
		{
			"empty passphrase",
			"",
			"5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		},
		{
			"TREZOR",
			"TREZOR",
			"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Derive(mnemonic.Parse(abandonAbout), tt.passphrase)
			require.Equal(t, tt.want, hex.EncodeToString(s[:]))
		})
	}
}

func TestDerive_MatchesReference(t *testing.T) {
	phrase := "legal winner thank year wave sausage worth useful legal winner thank yellow"
	for _, pass := range []string{"", "TREZOR", "correct horse battery staple"} {
		want := bip39.NewSeed(phrase, pass)
		got := Derive(mnemonic.Parse(phrase), pass)
		require.Equal(t, want, got.Bytes())
	}
}

func TestDerive_PassphraseNFKD(t *testing.T) {
	composed := Derive(mnemonic.Parse(abandonAbout), "p\u00e4ssw\u00f6rd")
	decomposed := Derive(mnemonic.Parse(abandonAbout), "pa\u0308sswo\u0308rd")
	require.Equal(t, composed.Bytes(), decomposed.Bytes())
	require.Equal(t,
		"f159596e1a257152783ecca3910131fb6496ae4616d76f9b4e060d0e2fead51e2ab2af2c4bb340ce6c683466324af2654b9e31bc05c93ad05025c46a83424485",
		hex.EncodeToString(composed[:]))
}

func TestDerive_PassphraseChanges(t *testing.T) {
	a := Derive(mnemonic.Parse(abandonAbout), "")
	b := Derive(mnemonic.Parse(abandonAbout), "my passphrase")
	require.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestDerive_Deterministic(t *testing.T) {
	a := Derive(mnemonic.Parse(abandonAbout), "test")
	b := Derive(mnemonic.Parse(abandonAbout), "test")
	require.Equal(t, a.Bytes(), b.Bytes())
}

func TestDerive_DoesNotValidateChecksum(t *testing.T) {
	bad := mnemonic.Parse("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon")
	require.Error(t, mnemonic.Validate(bad))

	s := Derive(bad, "")
	require.Len(t, s.Bytes(), Size)
	require.Equal(t, bip39.NewSeed(bad.String(), ""), s.Bytes())
}

func TestDerivePhrase_NormalizesWhitespaceAndCase(t *testing.T) {
	want := Derive(mnemonic.Parse(abandonAbout), "")
	got := DerivePhrase("  ABANDON abandon abandon abandon abandon abandon\tabandon abandon abandon abandon abandon  About ", "")
	require.Equal(t, want.Bytes(), got.Bytes())
}

func TestZero(t *testing.T) {
	s := Derive(mnemonic.Parse(abandonAbout), "")
	s.Zero()
	require.Equal(t, make([]byte, Size), s.Bytes())
}
