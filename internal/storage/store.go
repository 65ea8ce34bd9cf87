// Package storage keeps the address book: public outputs of past derivations.
// Nothing stored here is key material, and derivation never reads it back.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/olehkaliuzhnyi/walletgen/internal/hdkey"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

var (
	// ErrNotFound is returned when no record exists for a key.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecord is returned by Put for incomplete records.
	ErrInvalidRecord = errors.New("invalid address record")
)

// AddressStore records derived addresses keyed by network and derivation path.
type AddressStore interface {
	// Put stores or replaces the record for (network, path).
	Put(addr *models.DerivedAddress) error
	// Get returns the record for (network, path), or ErrNotFound.
	Get(network models.Network, path string) (*models.DerivedAddress, error)
	// Remove deletes the record for (network, path).
	Remove(network models.Network, path string) error
	// List returns records of one network, or of all networks when network
	// is empty, ordered by network and then by path segment indexes, so
	// m/0/2 comes before m/0/10.
	List(network models.Network) ([]*models.DerivedAddress, error)
	// Contains checks if an address has been recorded under any path.
	Contains(address string) (bool, error)
	// Close releases the backend.
	Close() error
}

const (
	recordPrefix = "addr/"
	indexPrefix  = "idx/"
)

func recordKey(network models.Network, path string) []byte {
	return []byte(recordPrefix + string(network) + "/" + path)
}

func listPrefix(network models.Network) []byte {
	if network == "" {
		return []byte(recordPrefix)
	}
	return []byte(recordPrefix + string(network) + "/")
}

// indexKey maps an address to its lookup key. Hex addresses are matched
// case-insensitively; Base58 addresses are case-sensitive.
func indexKey(address string) []byte {
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		address = strings.ToLower(address)
	}
	return []byte(indexPrefix + address)
}

func validate(addr *models.DerivedAddress) error {
	if addr == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if _, ok := models.ParseNetwork(string(addr.Network)); !ok {
		return fmt.Errorf("%w: unknown network %q", ErrInvalidRecord, addr.Network)
	}
	if addr.Address == "" || addr.DerivationPath == "" {
		return fmt.Errorf("%w: address and derivation path are required", ErrInvalidRecord)
	}
	return nil
}

func encode(addr *models.DerivedAddress) ([]byte, error) {
	return json.Marshal(addr)
}

func decode(raw []byte) (*models.DerivedAddress, error) {
	var addr models.DerivedAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, fmt.Errorf("decode address record: %w", err)
	}
	return &addr, nil
}

// sortRecords orders records by network, then numerically by path segment.
func sortRecords(recs []*models.DerivedAddress) {
	sort.SliceStable(recs, func(i, j int) bool {
		return lessRecord(recs[i], recs[j])
	})
}

func lessRecord(a, b *models.DerivedAddress) bool {
	if a.Network != b.Network {
		return a.Network < b.Network
	}
	pa, errA := hdkey.ParsePath(a.DerivationPath)
	pb, errB := hdkey.ParsePath(b.DerivationPath)
	if errA != nil || errB != nil {
		return a.DerivationPath < b.DerivationPath
	}
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i].Index != pb[i].Index {
			return pa[i].Index < pb[i].Index
		}
		if pa[i].Hardened != pb[i].Hardened {
			return !pa[i].Hardened
		}
	}
	return len(pa) < len(pb)
}
