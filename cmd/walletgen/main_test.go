package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehkaliuzhnyi/walletgen/internal/address"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/keystore"
	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

const (
	zeroEntropy = "0x00000000000000000000000000000000"
	testPhrase  = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	password    = "hodlhodlhodl"
)

// setupEnv points the CLI at a fresh datadir with cheap KDF settings.
func setupEnv(t *testing.T, store string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WALLETGEN_DATADIR", dir)
	t.Setenv("WALLETGEN_STORE", store)
	t.Setenv("WALLETGEN_LOG_LEVEL", "disabled")
	t.Setenv("WALLETGEN_KDF_MEMORY", "64")
	t.Setenv("WALLETGEN_KDF_ITERATIONS", "1")
	t.Setenv("WALLETGEN_KDF_PARALLELISM", "1")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out, strings.NewReader(stdin))
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"walletgen"}, args...))
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	setupEnv(t, "memory")

	t.Run("should derive the known vector from zero entropy", func(t *testing.T) {
		out, err := runCLI(t, "", "generate", "--entropy", zeroEntropy)
		require.NoError(t, err)

		var report models.WalletReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, testPhrase, report.Mnemonic)
		assert.Equal(t, "0011", report.Checksum)
		assert.Equal(t, hdkey.DefaultPath, report.DerivationPath)
		assert.Equal(t, testAddress, report.ChecksumAddress)
		assert.Equal(t, strings.ToLower(testAddress), report.Address)
		assert.Len(t, report.Steps, 10)
	})

	t.Run("should print labelled steps", func(t *testing.T) {
		out, err := runCLI(t, "", "generate", "--entropy", zeroEntropy, "--steps")
		require.NoError(t, err)
		assert.Equal(t, 10, strings.Count(out, "\n"))
		assert.Contains(t, out, testPhrase)
		assert.Contains(t, out, testAddress)
	})

	t.Run("should generate random wallets of the requested size", func(t *testing.T) {
		out, err := runCLI(t, "", "generate", "--bits", "256", "--record=false")
		require.NoError(t, err)

		var report models.WalletReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Len(t, strings.Fields(report.Mnemonic), 24)
		assert.True(t, address.IsChecksummed(report.ChecksumAddress))
	})

	t.Run("should reject a bad entropy size", func(t *testing.T) {
		_, err := runCLI(t, "", "generate", "--bits", "100")
		require.Error(t, err)
	})

	t.Run("should reject a malformed path", func(t *testing.T) {
		_, err := runCLI(t, "", "generate", "--path", "m/abc")
		require.ErrorIs(t, err, hdkey.ErrInvalidPath)
	})
}

func TestDerive(t *testing.T) {
	setupEnv(t, "memory")

	t.Run("should recover the address at a given path", func(t *testing.T) {
		out, err := runCLI(t, "", "derive", "--mnemonic", testPhrase, "--path", "m/44'/60'/0'/0/1")
		require.NoError(t, err)

		var report models.WalletReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, "0x6Fac4D18c912343BF86fa7049364Dd4E424Ab9C0", report.ChecksumAddress)
	})

	t.Run("should read the mnemonic from stdin", func(t *testing.T) {
		out, err := runCLI(t, testPhrase+"\n", "derive")
		require.NoError(t, err)
		assert.Contains(t, out, testAddress)
	})

	t.Run("should change the address with a passphrase", func(t *testing.T) {
		out, err := runCLI(t, "", "derive", "--mnemonic", testPhrase, "--passphrase", "TREZOR")
		require.NoError(t, err)
		assert.NotContains(t, out, testAddress)
	})
}

func TestChecksum(t *testing.T) {
	setupEnv(t, "memory")

	out, err := runCLI(t, "", "checksum", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed\n", out)

	out, err = runCLI(t, "", "checksum", "--trace", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.Equal(t, 1+address.HexLength, strings.Count(out, "\n"))

	_, err = runCLI(t, "", "checksum")
	require.Error(t, err)

	_, err = runCLI(t, "", "checksum", "0x1234")
	require.ErrorIs(t, err, address.ErrInvalidAddress)
}

func TestValidate(t *testing.T) {
	setupEnv(t, "memory")

	out, err := runCLI(t, "", "validate", "--mnemonic", testPhrase)
	require.NoError(t, err)
	assert.Contains(t, out, "12 words, 128 bits")

	bad := strings.Replace(testPhrase, "about", "abandon", 1)
	_, err = runCLI(t, "", "validate", "--mnemonic", bad)
	require.ErrorIs(t, err, mnemonic.ErrChecksumMismatch)

	unknown := strings.Replace(testPhrase, "about", "bitcoin", 1)
	_, err = runCLI(t, "", "validate", "--mnemonic", unknown)
	require.ErrorIs(t, err, mnemonic.ErrUnknownWord)
	assert.Contains(t, err.Error(), "word 12")

	out, err = runCLI(t, "", "validate", "--address", testAddress)
	require.NoError(t, err)
	assert.Contains(t, out, "valid checksummed address")

	out, err = runCLI(t, "", "validate", "--address", strings.ToLower(testAddress))
	require.NoError(t, err)
	assert.Contains(t, out, testAddress)

	_, err = runCLI(t, "", "validate", "--address", "0x9858efFD232B4033E47d90003D41EC34EcaEda94")
	require.ErrorIs(t, err, address.ErrChecksumMismatch)
}

func TestBreakdown(t *testing.T) {
	setupEnv(t, "memory")

	t.Run("entropy", func(t *testing.T) {
		out, err := runCLI(t, "", "breakdown", "--entropy", zeroEntropy)
		require.NoError(t, err)

		var b wordBreakdown
		require.NoError(t, json.Unmarshal([]byte(out), &b))
		assert.Equal(t, "0011", b.Checksum)
		assert.Equal(t, 4, b.ChecksumBits)
		require.Len(t, b.Words, 12)
		assert.Equal(t, mnemonic.Chunk{Bits: "00000000000", Index: 0, Word: "abandon"}, b.Words[0])
		assert.Equal(t, mnemonic.Chunk{Bits: "00000000011", Index: 3, Word: "about"}, b.Words[11])
	})

	t.Run("mnemonic", func(t *testing.T) {
		out, err := runCLI(t, "", "breakdown", "--mnemonic", testPhrase)
		require.NoError(t, err)

		var b wordBreakdown
		require.NoError(t, json.Unmarshal([]byte(out), &b))
		assert.Equal(t, zeroEntropy, b.Entropy)
	})

	t.Run("path", func(t *testing.T) {
		out, err := runCLI(t, "", "breakdown", "--path", hdkey.DefaultPath)
		require.NoError(t, err)

		var levels []pathLevel
		require.NoError(t, json.Unmarshal([]byte(out), &levels))
		require.Len(t, levels, 5)
		assert.Equal(t, pathLevel{Segment: "60'", Name: "coin type", Detail: "Ethereum (60)"}, levels[1])
	})

	t.Run("no input", func(t *testing.T) {
		_, err := runCLI(t, "", "breakdown")
		require.Error(t, err)
	})
}

func TestAddresses(t *testing.T) {
	setupEnv(t, "memory")

	tests := []struct {
		network string
		want    []string
	}{
		{"ETH", []string{testAddress, "0x6Fac4D18c912343BF86fa7049364Dd4E424Ab9C0"}},
		{"BTC", []string{"1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", "1Ak8PffB2meyfYnbXZR9EGfLfFZVpzJvQP"}},
		{"TRX", []string{"TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH", "TSeJkUh4Qv67VNFwY8LaAxERygNdy6NQZK"}},
	}
	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			out, err := runCLI(t, "", "addresses", "--network", tt.network, "--count", "2", "--mnemonic", testPhrase)
			require.NoError(t, err)

			var got []models.DerivedAddress
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			require.Len(t, got, 2)
			for i, a := range got {
				assert.Equal(t, tt.want[i], a.Address)
				assert.Equal(t, models.Network(tt.network), a.Network)
			}
		})
	}

	t.Run("defaults to the configured count", func(t *testing.T) {
		out, err := runCLI(t, "", "addresses", "--mnemonic", testPhrase)
		require.NoError(t, err)

		var got []models.DerivedAddress
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Len(t, got, 5)
		assert.Equal(t, "m/44'/60'/0'/0/4", got[4].DerivationPath)
	})

	t.Run("rejects an unknown network", func(t *testing.T) {
		_, err := runCLI(t, "", "addresses", "--network", "DOGE", "--mnemonic", testPhrase)
		require.Error(t, err)
	})
}

func TestHistory(t *testing.T) {
	setupEnv(t, "badger")

	out, err := runCLI(t, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = runCLI(t, "", "generate", "--entropy", zeroEntropy)
	require.NoError(t, err)
	_, err = runCLI(t, "", "addresses", "--network", "BTC", "--count", "1", "--mnemonic", testPhrase)
	require.NoError(t, err)

	out, err = runCLI(t, "", "history")
	require.NoError(t, err)
	var all []models.DerivedAddress
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", all[0].Address)
	assert.Equal(t, testAddress, all[1].Address)

	out, err = runCLI(t, "", "history", "--network", "ETH")
	require.NoError(t, err)
	var eth []models.DerivedAddress
	require.NoError(t, json.Unmarshal([]byte(out), &eth))
	require.Len(t, eth, 1)
	assert.Equal(t, hdkey.DefaultPath, eth[0].DerivationPath)

	out, err = runCLI(t, "", "history", "--contains", strings.ToLower(testAddress))
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestSealUnseal(t *testing.T) {
	dir := setupEnv(t, "memory")
	file := filepath.Join(dir, "wallet.json")

	_, err := runCLI(t, "", "generate", "--entropy", zeroEntropy, "--out", file, "--password", password)
	require.NoError(t, err)

	t.Run("should unseal with the right password", func(t *testing.T) {
		out, err := runCLI(t, "", "unseal", "--file", file, "--password", password)
		require.NoError(t, err)
		assert.Contains(t, out, testPhrase)
		assert.Contains(t, out, testAddress)
	})

	t.Run("should read the password from stdin", func(t *testing.T) {
		out, err := runCLI(t, password+"\n", "unseal", "--file", file)
		require.NoError(t, err)
		assert.Contains(t, out, testPhrase)
	})

	t.Run("should fail with the wrong password", func(t *testing.T) {
		_, err := runCLI(t, "", "unseal", "--file", file, "--password", "wrong")
		require.ErrorIs(t, err, keystore.ErrDecrypt)
	})

	t.Run("should not overwrite an existing keystore", func(t *testing.T) {
		_, err := runCLI(t, "", "generate", "--out", file, "--password", password)
		require.Error(t, err)
	})

	t.Run("should require matching passwords when prompting", func(t *testing.T) {
		other := filepath.Join(dir, "other.json")
		_, err := runCLI(t, "one\ntwo\n", "generate", "--out", other)
		require.Error(t, err)
	})
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t, "postgres")

	_, err := runCLI(t, "", "checksum", testAddress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE")
}
