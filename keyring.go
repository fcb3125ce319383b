package hermesring

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/rs/zerolog"
)

// KeyRing binds an account-address prefix to a storage backend and exposes
// key derivation, key file import, signing and the passthrough store
// operations.
//
// A KeyRing is not internally synchronized; see KeyStore for the access
// contract shared by its backends.
type KeyRing struct {
	store         KeyStore
	backend       Backend
	accountPrefix string
	logger        zerolog.Logger
}

// New creates a KeyRing from the given configuration. For the durable
// backend the per-chain keys folder
// <home>/.hermes/keys/<chain_id>/keyring-test is created if it does not
// exist; a directory creation failure surfaces as ErrKeyStore.
func New(cfg Config) (*KeyRing, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kr := &KeyRing{
		backend:       cfg.Backend,
		accountPrefix: cfg.AccountPrefix,
		logger:        *cfg.Logger,
	}

	switch cfg.Backend {
	case BackendTransient:
		kr.store = NewMemoryStore()
	case BackendDurable:
		dir, err := diskStorePath(cfg.HomeDir, cfg.ChainID)
		if err != nil {
			return nil, err
		}
		store, err := NewDiskStore(dir, kr.logger)
		if err != nil {
			return nil, err
		}
		kr.store = store
	}
	return kr, nil
}

// diskStorePath resolves the durable backend folder for a chain. An empty
// homeDir falls back to the user home directory.
func diskStorePath(homeDir, chainID string) (string, error) {
	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: cannot retrieve home folder location: %v", ErrKeyStore, err)
		}
		homeDir = home
	}
	return filepath.Join(homeDir, KeystoreDefaultFolder, chainID, KeystoreDiskBackend), nil
}

// Backend returns the backend selection the keyring was built with.
func (kr *KeyRing) Backend() Backend {
	return kr.backend
}

// AccountPrefix returns the bech32 prefix used for every account encoding
// performed through this keyring.
func (kr *KeyRing) AccountPrefix() string {
	return kr.accountPrefix
}

// GetKey returns the entry stored under name.
func (kr *KeyRing) GetKey(name string) (KeyEntry, error) {
	return kr.store.GetKey(name)
}

// AddKey stores entry under name without overwriting an existing key.
func (kr *KeyRing) AddKey(name string, entry KeyEntry) error {
	if err := kr.store.AddKey(name, entry); err != nil {
		return err
	}
	kr.logger.Debug().Str("name", name).Str("account", entry.Account).Msg("added key")
	return nil
}

// Keys enumerates all stored entries.
func (kr *KeyRing) Keys() ([]NamedKey, error) {
	return kr.store.Keys()
}

// KeyFromMnemonic derives a new entry from a BIP-39 mnemonic at
// m/44'/<coin_type>'/0'/0/0 and computes its address and account string
// under the keyring's prefix. The entry is not persisted; call AddKey to
// store it.
func (kr *KeyRing) KeyFromMnemonic(mnemonicWords string, coinType CoinType) (KeyEntry, error) {
	privateKey, err := privateKeyFromMnemonic(mnemonicWords, coinType)
	if err != nil {
		return KeyEntry{}, err
	}

	publicKey, err := privateKey.Neuter()
	if err != nil {
		return KeyEntry{}, fmt.Errorf("%w: %v", ErrPrivateKey, err)
	}
	ecPub, err := publicKey.ECPubKey()
	if err != nil {
		return KeyEntry{}, fmt.Errorf("%w: %v", ErrPrivateKey, err)
	}

	address := addressFromPubKey(ecPub)
	account, err := encodeBech32(kr.accountPrefix, address)
	if err != nil {
		return KeyEntry{}, err
	}

	return KeyEntry{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		Account:    account,
		Address:    address,
		CoinType:   coinType,
	}, nil
}

// KeyFromSeedFile parses content as a key file document and imports it,
// running the full re-derivation and consistency check. Malformed JSON
// surfaces as ErrInvalidKey.
func (kr *KeyRing) KeyFromSeedFile(content string) (KeyEntry, error) {
	var keyFile KeyFile
	if err := json.Unmarshal([]byte(content), &keyFile); err != nil {
		return KeyEntry{}, fmt.Errorf("%w: malformed key file document: %v", ErrInvalidKey, err)
	}
	return KeyEntryFromFile(keyFile)
}

// SignMsg signs msg with the key stored under name. The message is hashed
// with SHA-256 and signed deterministically (RFC 6979); the result is the
// fixed 64-byte R || S signature encoding.
func (kr *KeyRing) SignMsg(name string, msg []byte) ([]byte, error) {
	entry, err := kr.GetKey(name)
	if err != nil {
		return nil, err
	}

	privateKey, err := entry.PrivateKey.ECPrivKey()
	if err != nil {
		return nil, WrapKeyError("sign with", name,
			fmt.Errorf("%w: could not build signing key: %v", ErrInvalidKey, err))
	}

	digest := sha256.Sum256(msg)
	sig := ecdsa.SignCompact(privateKey, digest[:], false)

	// SignCompact prepends a recovery byte; keep the 64-byte R || S payload.
	return sig[1:], nil
}
