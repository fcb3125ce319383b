// Package hermesring manages hierarchical-deterministic account identities
// for a relayer: it derives secp256k1 key pairs from BIP-39 mnemonics,
// persists them through pluggable storage backends, validates imported key
// files, computes bech32 account addresses, and signs payloads on behalf of
// a named key.
package hermesring

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// Key store layout constants
const (
	// KeystoreDefaultFolder is the home-relative root of all key stores.
	KeystoreDefaultFolder = ".hermes/keys"
	// KeystoreDiskBackend names the folder holding the durable backend's
	// key files inside a chain's key store.
	KeystoreDiskBackend = "keyring-test"
	// KeystoreFileExtension is the extension of the per-key files.
	KeystoreFileExtension = "json"
)

// Backend selects the storage implementation backing a KeyRing.
// The choice is made at construction time and cannot be switched afterwards
// without building a new KeyRing.
type Backend string

const (
	// BackendTransient keeps keys in an in-process map; contents are lost
	// when the keyring is dropped.
	BackendTransient Backend = "transient"
	// BackendDurable keeps one JSON file per key under the chain's keys
	// folder.
	BackendDurable Backend = "durable"
)

// CoinType is a BIP-44 coin type, the namespace index distinguishing one
// chain's keys from another's under a shared mnemonic.
//
// See the list of registered coin types:
// https://github.com/satoshilabs/slips/blob/master/slip-0044.md
type CoinType uint32

// CoinTypeAtom is the Atom (Cosmos) coin type with number 118. It is the
// default when a key file does not carry an explicit coin type.
const CoinTypeAtom CoinType = 118

// NewCoinType wraps a raw coin type number.
func NewCoinType(n uint32) CoinType {
	return CoinType(n)
}

// Num returns the underlying coin type number.
func (c CoinType) Num() uint32 {
	return uint32(c)
}

// String renders the coin type as its decimal number.
func (c CoinType) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseCoinType parses a decimal coin type number.
func ParseCoinType(s string) (CoinType, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse coin type %q: %w", s, err)
	}
	return CoinType(n), nil
}

// Config holds configuration for KeyRing construction.
type Config struct {
	Backend       Backend         // storage backend selection
	AccountPrefix string          // bech32 human-readable prefix for accounts
	ChainID       string          // chain identifier, names the durable keys folder
	HomeDir       string          // overrides the user home directory (durable backend)
	Logger        *zerolog.Logger // defaults to a no-op logger
}

// WithDefaults returns Config with default values applied.
func (c Config) WithDefaults() Config {
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

// Validate checks required configuration fields.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendTransient, BackendDurable:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.AccountPrefix == "" {
		return ErrMissingAccountPrefix
	}
	if c.Backend == BackendDurable && c.ChainID == "" {
		return ErrMissingChainID
	}
	return nil
}
