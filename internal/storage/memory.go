package storage

import (
	"strings"
	"sync"

	"github.com/olehkaliuzhnyi/walletgen/pkg/models"
)

// MemoryStore is an in-memory AddressStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.DerivedAddress
	index   map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]models.DerivedAddress),
		index:   make(map[string]int),
	}
}

func (s *MemoryStore) Put(addr *models.DerivedAddress) error {
	if err := validate(addr); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(recordKey(addr.Network, addr.DerivationPath))
	if old, ok := s.records[key]; ok {
		s.unindex(old.Address)
	}
	s.records[key] = *addr
	s.index[string(indexKey(addr.Address))]++
	return nil
}

func (s *MemoryStore) Get(network models.Network, path string) (*models.DerivedAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[string(recordKey(network, path))]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Remove(network models.Network, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := string(recordKey(network, path))
	rec, ok := s.records[key]
	if !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	s.unindex(rec.Address)
	return nil
}

func (s *MemoryStore) List(network models.Network) ([]*models.DerivedAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := string(listPrefix(network))
	result := make([]*models.DerivedAddress, 0, len(s.records))
	for k, rec := range s.records {
		rec := rec
		if strings.HasPrefix(k, prefix) {
			result = append(result, &rec)
		}
	}
	sortRecords(result)
	return result, nil
}

func (s *MemoryStore) Contains(address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[string(indexKey(address))] > 0, nil
}

func (s *MemoryStore) Close() error { return nil }

// unindex must be called with mu held.
func (s *MemoryStore) unindex(address string) {
	k := string(indexKey(address))
	if s.index[k] <= 1 {
		delete(s.index, k)
		return
	}
	s.index[k]--
}
