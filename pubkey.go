package hermesring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// PubKeyTypeSecp256k1 is the proto type URL tagging secp256k1 public keys
// in key file documents.
const PubKeyTypeSecp256k1 = "/cosmos.crypto.secp256k1.PubKey"

// EncodedPubKey is the textual public key representation stored in key
// files. Two producer formats are recognized: the proto JSON object form
//
//	{"@type":"/cosmos.crypto.secp256k1.PubKey","key":"<base64>"}
//
// and a bare bech32 string whose data part carries (possibly
// amino-prefixed) key bytes.
type EncodedPubKey struct {
	raw []byte
}

type protoAnyPubKey struct {
	Type string `json:"@type"`
	Key  []byte `json:"key"`
}

// ParseEncodedPubKey parses the textual representation of a public key.
// Malformed input and unsupported key types surface as ErrInvalidKey.
func ParseEncodedPubKey(s string) (EncodedPubKey, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		var pk protoAnyPubKey
		if err := json.Unmarshal([]byte(s), &pk); err != nil {
			return EncodedPubKey{}, fmt.Errorf("%w: malformed public key document: %v", ErrInvalidKey, err)
		}
		if pk.Type != PubKeyTypeSecp256k1 {
			return EncodedPubKey{}, fmt.Errorf("%w: unsupported public key type %q", ErrInvalidKey, pk.Type)
		}
		if len(pk.Key) == 0 {
			return EncodedPubKey{}, fmt.Errorf("%w: empty public key", ErrInvalidKey)
		}
		return EncodedPubKey{raw: pk.Key}, nil
	}

	_, words, err := bech32.Decode(s)
	if err != nil {
		return EncodedPubKey{}, fmt.Errorf("%w: public key is neither proto JSON nor bech32: %v", ErrInvalidKey, err)
	}
	raw, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return EncodedPubKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return EncodedPubKey{raw: raw}, nil
}

// Bytes returns the decoded key material, including any producer prefix
// preceding the key itself.
func (e EncodedPubKey) Bytes() []byte {
	out := make([]byte, len(e.raw))
	copy(out, e.raw)
	return out
}

// EncodeProtoPubKey renders raw compressed key bytes in the proto JSON
// object form understood by ParseEncodedPubKey.
func EncodeProtoPubKey(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty public key", ErrInvalidKey)
	}
	doc, err := json.Marshal(protoAnyPubKey{Type: PubKeyTypeSecp256k1, Key: raw})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return string(doc), nil
}
