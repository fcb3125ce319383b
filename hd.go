package hermesring

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"
)

// hardenedOffset marks BIP-32 hardened child indexes.
const hardenedOffset = uint32(hdkeychain.HardenedKeyStart)

// NewMnemonic generates a fresh BIP-39 mnemonic from entropyBits of random
// entropy. Valid sizes are 128, 160, 192, 224 and 256 bits, yielding 12 to
// 24 words.
func NewMnemonic(entropyBits int) (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// privateKeyFromMnemonic derives the extended private key at
// m/44'/<coin_type>'/0'/0/0 from a BIP-39 mnemonic, stretching it into a
// seed with an empty passphrase. The derivation is pure and deterministic:
// identical inputs always yield identical keys.
func privateKeyFromMnemonic(mnemonicWords string, coinType CoinType) (*hdkeychain.ExtendedKey, error) {
	if !bip39.IsMnemonicValid(mnemonicWords) {
		return nil, fmt.Errorf("%w: wordlist or checksum validation failed", ErrInvalidMnemonic)
	}
	seed := bip39.NewSeed(mnemonicWords, "")

	path, err := hdPathIndexes(coinType)
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrivateKey, err)
	}
	for _, childIndex := range path {
		key, err = key.Derive(childIndex)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPrivateKey, err)
		}
	}
	return key, nil
}

// hdPathIndexes builds the child indexes of m/44'/<coin_type>'/0'/0/0.
// Hardened segments only hold indexes below 2^31, so larger coin types
// cannot be embedded in a valid path.
func hdPathIndexes(coinType CoinType) ([]uint32, error) {
	if coinType.Num() >= hardenedOffset {
		return nil, fmt.Errorf("%w: m/44'/%d'/0'/0/0", ErrInvalidHDPath, coinType.Num())
	}
	return []uint32{
		hardenedOffset + 44,
		hardenedOffset + coinType.Num(),
		hardenedOffset,
		0,
		0,
	}, nil
}

// addressFromPubKey computes the hash160 (SHA-256 then RIPEMD-160) of the
// compressed public key. The result does not depend on any account prefix.
func addressFromPubKey(pub *btcec.PublicKey) []byte {
	return btcutil.Hash160(pub.SerializeCompressed())
}

// encodeBech32 renders address bytes under the given human-readable prefix.
func encodeBech32(prefix string, data []byte) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty account prefix", ErrBech32Account)
	}
	words, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBech32Account, err)
	}
	account, err := bech32.Encode(prefix, words)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBech32Account, err)
	}
	return account, nil
}

// decodeBech32 recovers the raw bytes of a bech32 string.
func decodeBech32(input string) ([]byte, error) {
	_, words, err := bech32.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBech32Account, err)
	}
	data, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBech32Account, err)
	}
	return data, nil
}
