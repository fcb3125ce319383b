package hermesring

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Sentinel errors - Configuration
var (
	ErrUnknownBackend       = errors.New("hermesring: unknown backend")
	ErrMissingAccountPrefix = errors.New("hermesring: AccountPrefix is required")
	ErrMissingChainID       = errors.New("hermesring: ChainID is required")
)

// Sentinel errors - Storage
var (
	ErrKeyNotFound = errors.New("hermesring: key not found")
	ErrExistingKey = errors.New("hermesring: key already exists")
	ErrKeyStore    = errors.New("hermesring: key store failure")
)

// Sentinel errors - Key material
var (
	ErrInvalidKey        = errors.New("hermesring: invalid key")
	ErrInvalidMnemonic   = errors.New("hermesring: invalid mnemonic")
	ErrInvalidHDPath     = errors.New("hermesring: invalid HD path")
	ErrPrivateKey        = errors.New("hermesring: private key derivation failed")
	ErrPublicKeyMismatch = errors.New("hermesring: public key mismatch")
	ErrBech32Account     = errors.New("hermesring: bech32 account encoding failed")
)

// PublicKeyMismatchError reports an imported key file whose embedded public
// key disagrees with the key freshly derived from its mnemonic. Both byte
// sequences are retained for diagnostics.
type PublicKeyMismatchError struct {
	KeyFile  []byte // trimmed key bytes claimed by the key file
	Mnemonic []byte // key bytes derived from the embedded mnemonic
}

// Error implements the error interface.
func (e *PublicKeyMismatchError) Error() string {
	return fmt.Sprintf("%v: key file has %s, mnemonic derives %s",
		ErrPublicKeyMismatch,
		hex.EncodeToString(e.KeyFile),
		hex.EncodeToString(e.Mnemonic))
}

// Is implements the errors.Is interface so a mismatch matches the
// ErrPublicKeyMismatch sentinel.
func (e *PublicKeyMismatchError) Is(target error) bool {
	return target == ErrPublicKeyMismatch
}

// KeyError wraps an error with key operation context.
type KeyError struct {
	KeyName string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("%s key %q: %v", e.Op, e.KeyName, e.Err)
}

// Unwrap implements the errors.Unwrap interface for error chaining.
func (e *KeyError) Unwrap() error {
	return e.Err
}

// WrapKeyError wraps an error with key operation context.
// Returns nil if the provided error is nil.
func WrapKeyError(op, keyName string, err error) error {
	if err == nil {
		return nil
	}
	return &KeyError{
		KeyName: keyName,
		Op:      op,
		Err:     err,
	}
}
