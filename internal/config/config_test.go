package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olehkaliuzhnyi/walletgen/internal/keystore"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 128, cfg.EntropyBits)
	require.Equal(t, "m/44'/60'/0'/0/0", cfg.DerivationPath)
	require.Equal(t, StoreBadger, cfg.Store)
	require.NotEmpty(t, cfg.Datadir)
	require.Equal(t, filepath.Join(cfg.Datadir, "db"), cfg.DBDir())
}

func TestFromEnv_Defaults(t *testing.T) {
	require.Equal(t, Default(), FromEnv())
}

func TestFromEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WALLETGEN_ENTROPY_BITS", "256")
	t.Setenv("WALLETGEN_DERIVATION_PATH", "m/44'/0'/0'/0/0")
	t.Setenv("WALLETGEN_LOG_LEVEL", "debug")
	t.Setenv("WALLETGEN_LOG_JSON", "true")
	t.Setenv("WALLETGEN_DATADIR", dir)
	t.Setenv("WALLETGEN_STORE", "memory")
	t.Setenv("WALLETGEN_ADDRESS_COUNT", "20")
	t.Setenv("WALLETGEN_KDF_MEMORY", "1024")
	t.Setenv("WALLETGEN_KDF_ITERATIONS", "1")
	t.Setenv("WALLETGEN_KDF_PARALLELISM", "2")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	require.Equal(t, Config{
		EntropyBits:    256,
		DerivationPath: "m/44'/0'/0'/0/0",
		LogLevel:       "debug",
		LogJSON:        true,
		Datadir:        dir,
		Store:          StoreMemory,
		AddressCount:   20,
		KDFMemory:      1024,
		KDFIterations:  1,
		KDFParallelism: 2,
	}, cfg)
}

func TestFromEnv_InvalidPathIsNotReplaced(t *testing.T) {
	t.Setenv("WALLETGEN_DERIVATION_PATH", "m/abc")

	cfg := FromEnv()
	require.Equal(t, "m/abc", cfg.DerivationPath)
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), DerivationPathKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"entropy bits", func(c *Config) { c.EntropyBits = 100 }, EntropyBitsKey},
		{"entropy zero", func(c *Config) { c.EntropyBits = 0 }, EntropyBitsKey},
		{"path", func(c *Config) { c.DerivationPath = "44'/60'" }, DerivationPathKey},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, LogLevelKey},
		{"datadir", func(c *Config) { c.Datadir = "" }, DatadirKey},
		{"store", func(c *Config) { c.Store = "postgres" }, StoreKey},
		{"count", func(c *Config) { c.AddressCount = 0 }, AddressCountKey},
		{"kdf", func(c *Config) { c.KDFIterations = 0 }, KDFIterationsKey},
		{"kdf memory cap", func(c *Config) { c.KDFMemory = keystore.MaxMemory + 1 }, KDFMemoryKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.EntropyBits = 1
	cfg.Store = "nope"
	err := cfg.Validate()
	require.Error(t, err)
	require.Equal(t, 2, strings.Count(err.Error(), "\n")+1)
}
