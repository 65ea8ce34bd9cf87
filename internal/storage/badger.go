package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

// BadgerStore implements AddressStore using Badger.
type BadgerStore struct {
	db *badger.DB
}

// NewBadger opens (or creates) an address book at the given directory.
func NewBadger(path string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(path), path)
}

// NewBadgerInMemory opens a Badger store that lives only in memory.
func NewBadgerInMemory() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), "memory")
}

func openBadger(opts badger.Options, path string) (*BadgerStore, error) {
	opts.Logger = nil // Disable badger's built-in logging.

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("address book at %s is locked by another process (is another walletgen running?): %w", path, err)
		}
		return nil, fmt.Errorf("open address book at %s: %w", path, err)
	}
	log.Storage.Debug().Str("path", path).Msg("address book opened")
	return &BadgerStore{db: db}, nil
}

// entryKey links an address to the record that holds it.
func entryKey(addr *models.DerivedAddress) []byte {
	return []byte(string(indexKey(addr.Address)) + "/" + string(addr.Network) + "/" + addr.DerivationPath)
}

// Put stores a record and its address index entry in one transaction.
func (b *BadgerStore) Put(addr *models.DerivedAddress) error {
	if err := validate(addr); err != nil {
		return err
	}
	value, err := encode(addr)
	if err != nil {
		return err
	}

	key := recordKey(addr.Network, addr.DerivationPath)
	err = b.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, key)
		switch {
		case err == nil:
			if err := txn.Delete(entryKey(old)); err != nil {
				return err
			}
		case !errors.Is(err, ErrNotFound):
			return err
		}
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set(entryKey(addr), nil)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}

	log.Storage.Debug().
		Str("network", string(addr.Network)).
		Str("path", addr.DerivationPath).
		Str("address", addr.Address).
		Msg("address recorded")
	return nil
}

// Get retrieves a record. Returns ErrNotFound if it does not exist.
func (b *BadgerStore) Get(network models.Network, path string) (*models.DerivedAddress, error) {
	var rec *models.DerivedAddress
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, recordKey(network, path))
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return rec, nil
}

// Remove deletes a record and its index entry.
func (b *BadgerStore) Remove(network models.Network, path string) error {
	key := recordKey(network, path)
	err := b.db.Update(func(txn *badger.Txn) error {
		old, err := getRecord(txn, key)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(entryKey(old))
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// List collects records under the network prefix and sorts them by path.
func (b *BadgerStore) List(network models.Network) ([]*models.DerivedAddress, error) {
	var result []*models.DerivedAddress
	err := b.forEach(listPrefix(network), func(_, value []byte) error {
		rec, err := decode(value)
		if err != nil {
			return err
		}
		result = append(result, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list: %w", err)
	}
	sortRecords(result)
	return result, nil
}

// Contains checks for an index entry of address under any record.
func (b *BadgerStore) Contains(address string) (bool, error) {
	found := false
	errStop := errors.New("stop")
	err := b.forEach([]byte(string(indexKey(address))+"/"), func(_, _ []byte) error {
		found = true
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return false, fmt.Errorf("badger has: %w", err)
	}
	return found, nil
}

// Close closes the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// forEach iterates over all keys with the given prefix.
func (b *BadgerStore) forEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			err := item.Value(func(val []byte) error {
				return fn(key, val)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func getRecord(txn *badger.Txn, key []byte) (*models.DerivedAddress, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}
