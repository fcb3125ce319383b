package hermesring

import "fmt"

// MemoryStore is the transient backend: an in-process name to entry map
// whose contents are lost when the store is dropped.
type MemoryStore struct {
	keys map[string]KeyEntry
}

// Verify interface compliance
var _ KeyStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty transient store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]KeyEntry)}
}

// GetKey returns the entry stored under name, ErrKeyNotFound otherwise.
func (s *MemoryStore) GetKey(name string) (KeyEntry, error) {
	entry, ok := s.keys[name]
	if !ok {
		return KeyEntry{}, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return entry, nil
}

// AddKey stores entry under name, failing with ErrExistingKey when the name
// is already present.
func (s *MemoryStore) AddKey(name string, entry KeyEntry) error {
	if _, ok := s.keys[name]; ok {
		return fmt.Errorf("%w: %s", ErrExistingKey, name)
	}
	s.keys[name] = entry
	return nil
}

// Keys returns all stored entries in map iteration order.
func (s *MemoryStore) Keys() ([]NamedKey, error) {
	out := make([]NamedKey, 0, len(s.keys))
	for name, entry := range s.keys {
		out = append(out, NamedKey{Name: name, Entry: entry})
	}
	return out, nil
}
