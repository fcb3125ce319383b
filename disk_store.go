package hermesring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DiskStore is the durable backend: one JSON document per key, named
// <key>.json, under a per-chain directory.
type DiskStore struct {
	dir    string
	logger zerolog.Logger
}

// Verify interface compliance
var _ KeyStore = (*DiskStore)(nil)

// NewDiskStore creates a store over dir, creating the directory with 0700
// permissions if it does not exist.
func NewDiskStore(dir string, logger zerolog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: failed to create keys folder %q: %v", ErrKeyStore, dir, err)
	}
	logger.Debug().Str("dir", dir).Msg("opened disk key store")
	return &DiskStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory holding the key files.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) keyPath(name string) string {
	return filepath.Join(s.dir, name+"."+KeystoreFileExtension)
}

// GetKey loads the entry stored under name. An absent, unreadable or
// malformed key file surfaces as ErrKeyStore.
func (s *DiskStore) GetKey(name string) (KeyEntry, error) {
	path := s.keyPath(name)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return KeyEntry{}, fmt.Errorf("%w: cannot find key file at %q", ErrKeyStore, path)
	}
	if err != nil {
		return KeyEntry{}, fmt.Errorf("%w: cannot open key file at %q: %v", ErrKeyStore, path, err)
	}

	var entry KeyEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return KeyEntry{}, fmt.Errorf("%w: cannot read key file at %q: %v", ErrKeyStore, path, err)
	}
	return entry, nil
}

// AddKey serializes entry into a new key file. Creation is exclusive: a
// file already present under the same name, whoever wrote it, fails the
// call with ErrExistingKey instead of being clobbered.
func (s *DiskStore) AddKey(name string, entry KeyEntry) error {
	path := s.keyPath(name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExistingKey, name)
	}
	if err != nil {
		return fmt.Errorf("%w: error creating the key file %q: %v", ErrKeyStore, path, err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%w: error encoding the key entry: %v", ErrKeyStore, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%w: error writing the key file %q: %v", ErrKeyStore, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: error closing the key file %q: %v", ErrKeyStore, path, err)
	}

	s.logger.Debug().Str("name", name).Str("path", path).Msg("stored key file")
	return nil
}

// Keys loads every *.json file in the store directory, deriving each key
// name from the file stem. A single unreadable or corrupt file aborts the
// whole listing.
func (s *DiskStore) Keys() ([]NamedKey, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot list keys: %v", ErrKeyStore, err)
	}

	suffix := "." + KeystoreFileExtension
	var out []NamedKey
	for _, dirEntry := range dirEntries {
		fileName := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(fileName, suffix) {
			continue
		}
		name := strings.TrimSuffix(fileName, suffix)

		entry, err := s.GetKey(name)
		if err != nil {
			return nil, err
		}
		out = append(out, NamedKey{Name: name, Entry: entry})
	}
	return out, nil
}
