// Package config loads walletgen settings from WALLETGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"

	"github.com/olehkaliuzhnyi/walletgen/internal/entropy"
	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/internal/keystore"
)

const (
	// EnvPrefix is prepended to every key when read from the environment.
	EnvPrefix = "WALLETGEN"

	// EntropyBitsKey is the size of freshly generated entropy: 128-256 in steps of 32
	EntropyBitsKey = "ENTROPY_BITS"
	// DerivationPathKey is the path used when a command is given none
	DerivationPathKey = "DERIVATION_PATH"
	// LogLevelKey is one of trace, debug, info, warn, error, disabled
	LogLevelKey = "LOG_LEVEL"
	// LogJSONKey switches console output from colored text to JSON
	LogJSONKey = "LOG_JSON"
	// LogFileKey is an optional file that receives JSON log events
	LogFileKey = "LOG_FILE"
	// DatadirKey is the local directory for the address book and exports
	DatadirKey = "DATADIR"
	// StoreKey selects the address book backend: badger or memory
	StoreKey = "STORE"
	// AddressCountKey is how many addresses the addresses command lists
	AddressCountKey = "ADDRESS_COUNT"
	// KDFMemoryKey is the Argon2id memory cost in KiB for mnemonic export
	KDFMemoryKey = "KDF_MEMORY"
	// KDFIterationsKey is the Argon2id time cost for mnemonic export
	KDFIterationsKey = "KDF_ITERATIONS"
	// KDFParallelismKey is the Argon2id lane count for mnemonic export
	KDFParallelismKey = "KDF_PARALLELISM"

	// StoreBadger keeps the address book on disk.
	StoreBadger = "badger"
	// StoreMemory keeps the address book for the lifetime of the process.
	StoreMemory = "memory"

	dbLocation = "db"
)

var defaultDatadir = btcutil.AppDataDir("walletgen", false)

// Config holds all configurable parameters of walletgen.
type Config struct {
	// Pipeline defaults
	EntropyBits    int
	DerivationPath string

	// Logging
	LogLevel string
	LogJSON  bool
	LogFile  string

	// Address book
	Datadir      string
	Store        string
	AddressCount int

	// Argon2id cost for mnemonic export
	KDFMemory      uint32
	KDFIterations  uint32
	KDFParallelism uint8
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		EntropyBits:    128,
		DerivationPath: hdkey.DefaultPath,

		LogLevel: "info",

		Datadir:      defaultDatadir,
		Store:        StoreBadger,
		AddressCount: 5,

		KDFMemory:      64 * 1024, // 64 MB
		KDFIterations:  3,
		KDFParallelism: 4,
	}
}

// New returns a viper instance with the environment bound and defaults set.
func New() *viper.Viper {
	def := Default()

	vip := viper.New()
	vip.SetEnvPrefix(EnvPrefix)
	vip.AutomaticEnv()

	vip.SetDefault(EntropyBitsKey, def.EntropyBits)
	vip.SetDefault(DerivationPathKey, def.DerivationPath)
	vip.SetDefault(LogLevelKey, def.LogLevel)
	vip.SetDefault(LogJSONKey, def.LogJSON)
	vip.SetDefault(LogFileKey, def.LogFile)
	vip.SetDefault(DatadirKey, def.Datadir)
	vip.SetDefault(StoreKey, def.Store)
	vip.SetDefault(AddressCountKey, def.AddressCount)
	vip.SetDefault(KDFMemoryKey, def.KDFMemory)
	vip.SetDefault(KDFIterationsKey, def.KDFIterations)
	vip.SetDefault(KDFParallelismKey, def.KDFParallelism)
	return vip
}

// FromEnv returns a Config populated from WALLETGEN_* environment variables,
// falling back to defaults for unset values. Malformed values are not
// replaced by defaults; call Validate.
func FromEnv() Config {
	return FromViper(New())
}

// FromViper reads a Config from vip.
func FromViper(vip *viper.Viper) Config {
	return Config{
		EntropyBits:    vip.GetInt(EntropyBitsKey),
		DerivationPath: vip.GetString(DerivationPathKey),
		LogLevel:       vip.GetString(LogLevelKey),
		LogJSON:        vip.GetBool(LogJSONKey),
		LogFile:        vip.GetString(LogFileKey),
		Datadir:        vip.GetString(DatadirKey),
		Store:          vip.GetString(StoreKey),
		AddressCount:   vip.GetInt(AddressCountKey),
		KDFMemory:      vip.GetUint32(KDFMemoryKey),
		KDFIterations:  vip.GetUint32(KDFIterationsKey),
		KDFParallelism: uint8(vip.GetUint(KDFParallelismKey)),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if !entropy.ValidBits(c.EntropyBits) {
		errs = append(errs, fmt.Errorf("%s: %d is not one of 128, 160, 192, 224, 256", EntropyBitsKey, c.EntropyBits))
	}
	if _, err := hdkey.ParsePath(c.DerivationPath); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", DerivationPathKey, err))
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Errorf("%s: unknown level %q", LogLevelKey, c.LogLevel))
	}
	if c.Datadir == "" {
		errs = append(errs, fmt.Errorf("%s: must not be empty", DatadirKey))
	}
	if c.Store != StoreBadger && c.Store != StoreMemory {
		errs = append(errs, fmt.Errorf("%s: %q, want %s or %s", StoreKey, c.Store, StoreBadger, StoreMemory))
	}
	if c.AddressCount <= 0 {
		errs = append(errs, fmt.Errorf("%s: must be positive", AddressCountKey))
	}
	if err := c.KDFParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%s/%s/%s: %w", KDFMemoryKey, KDFIterationsKey, KDFParallelismKey, err))
	}
	return errors.Join(errs...)
}

// KDFParams returns the Argon2id cost used for mnemonic export.
func (c Config) KDFParams() keystore.Params {
	return keystore.Params{
		Memory:      c.KDFMemory,
		Iterations:  c.KDFIterations,
		Parallelism: c.KDFParallelism,
	}
}

// DBDir is where the badger address book lives.
func (c Config) DBDir() string {
	return filepath.Join(c.Datadir, dbLocation)
}
