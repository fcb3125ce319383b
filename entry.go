package hermesring

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// KeyEntry is a derived account identity as held by a key store.
//
// Address is always the hash160 of the compressed public key and Account its
// bech32 encoding under the owning keyring's prefix. Entries are never
// mutated after creation; the store's copy remains the source of truth when
// a copy is handed out for signing.
type KeyEntry struct {
	// PublicKey is the extended public key.
	PublicKey *hdkeychain.ExtendedKey

	// PrivateKey is the extended private key.
	PrivateKey *hdkeychain.ExtendedKey

	// Account is the bech32 account string.
	Account string

	// Address is the raw account address.
	Address []byte

	// CoinType is the BIP-44 coin type the keys were derived under.
	CoinType CoinType
}

// keyEntryJSON is the serialized form of a KeyEntry; the extended keys are
// carried as their standard base58 string serialization.
type keyEntryJSON struct {
	PublicKey  string   `json:"public_key"`
	PrivateKey string   `json:"private_key"`
	Account    string   `json:"account"`
	Address    []byte   `json:"address"`
	CoinType   CoinType `json:"coin_type"`
}

// MarshalJSON implements json.Marshaler.
func (e KeyEntry) MarshalJSON() ([]byte, error) {
	if e.PublicKey == nil || e.PrivateKey == nil {
		return nil, fmt.Errorf("%w: entry is missing key material", ErrInvalidKey)
	}
	return json.Marshal(keyEntryJSON{
		PublicKey:  e.PublicKey.String(),
		PrivateKey: e.PrivateKey.String(),
		Account:    e.Account,
		Address:    e.Address,
		CoinType:   e.CoinType,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *KeyEntry) UnmarshalJSON(data []byte) error {
	var doc keyEntryJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	publicKey, err := hdkeychain.NewKeyFromString(doc.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: public key: %v", ErrInvalidKey, err)
	}
	privateKey, err := hdkeychain.NewKeyFromString(doc.PrivateKey)
	if err != nil {
		return fmt.Errorf("%w: private key: %v", ErrInvalidKey, err)
	}
	if !privateKey.IsPrivate() {
		return fmt.Errorf("%w: private_key field holds a public key", ErrInvalidKey)
	}

	*e = KeyEntry{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		Account:    doc.Account,
		Address:    doc.Address,
		CoinType:   doc.CoinType,
	}
	return nil
}

// KeyFile is the portable serialized form of an identity (mnemonic plus
// claimed keys) used for import and export. It is reducible to a KeyEntry
// only through KeyEntryFromFile, which re-derives the keys and verifies the
// file's claims against them.
type KeyFile struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Address  string    `json:"address"`
	PubKey   string    `json:"pubkey"`
	Mnemonic string    `json:"mnemonic"`
	CoinType *CoinType `json:"coin_type,omitempty"`
}

// KeyEntryFromFile validates a key file and rebuilds the identity it
// describes. Keys are re-derived from the embedded mnemonic and the entry is
// built from that freshly derived material, never from the file's claims
// alone: a file whose public key disagrees with its mnemonic is rejected
// with a PublicKeyMismatchError.
func KeyEntryFromFile(keyFile KeyFile) (KeyEntry, error) {
	addressBytes, err := decodeBech32(keyFile.Address)
	if err != nil {
		return KeyEntry{}, err
	}

	encodedKey, err := ParseEncodedPubKey(keyFile.PubKey)
	if err != nil {
		return KeyEntry{}, err
	}
	keyfileBytes := encodedKey.Bytes()

	// Use the embedded coin type if present, the Atom coin type otherwise.
	coinType := CoinTypeAtom
	if keyFile.CoinType != nil {
		coinType = *keyFile.CoinType
	}

	privateKey, err := privateKeyFromMnemonic(keyFile.Mnemonic, coinType)
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
	derivedBytes := ecPub.SerializeCompressed()

	// Some producers prepend a fixed-length type tag (e.g. an amino prefix)
	// to the encoded key bytes. Strip the leading bytes and compare the
	// trailing len(derivedBytes) bytes against the derived key.
	if len(keyfileBytes) < len(derivedBytes) {
		return KeyEntry{}, fmt.Errorf("%w: encoded public key holds %d bytes, shorter than the derived key (%d)",
			ErrInvalidKey, len(keyfileBytes), len(derivedBytes))
	}
	keyfileBytes = keyfileBytes[len(keyfileBytes)-len(derivedBytes):]

	if !bytes.Equal(keyfileBytes, derivedBytes) {
		return KeyEntry{}, &PublicKeyMismatchError{KeyFile: keyfileBytes, Mnemonic: derivedBytes}
	}

	return KeyEntry{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		Account:    keyFile.Address,
		Address:    addressBytes,
		CoinType:   coinType,
	}, nil
}

// KeyFile exports the entry as a portable key file. The mnemonic must be
// the one the entry was derived from, otherwise the file will fail its
// consistency check on re-import.
func (e KeyEntry) KeyFile(name, mnemonic string) (KeyFile, error) {
	if e.PublicKey == nil {
		return KeyFile{}, fmt.Errorf("%w: entry is missing key material", ErrInvalidKey)
	}
	ecPub, err := e.PublicKey.ECPubKey()
	if err != nil {
		return KeyFile{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	pubkey, err := EncodeProtoPubKey(ecPub.SerializeCompressed())
	if err != nil {
		return KeyFile{}, err
	}

	coinType := e.CoinType
	return KeyFile{
		Name:     name,
		Type:     "local",
		Address:  e.Account,
		PubKey:   pubkey,
		Mnemonic: mnemonic,
		CoinType: &coinType,
	}, nil
}
