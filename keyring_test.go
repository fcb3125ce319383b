package hermesring

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransientRing(t *testing.T, prefix string) *KeyRing {
	t.Helper()

	kr, err := New(Config{Backend: BackendTransient, AccountPrefix: prefix})
	require.NoError(t, err)
	return kr
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Backend: "remote", AccountPrefix: "cosmos"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = New(Config{Backend: BackendTransient})
	assert.ErrorIs(t, err, ErrMissingAccountPrefix)

	_, err = New(Config{Backend: BackendDurable, AccountPrefix: "cosmos"})
	assert.ErrorIs(t, err, ErrMissingChainID)
}

func TestNew_Accessors(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	assert.Equal(t, BackendTransient, kr.Backend())
	assert.Equal(t, "cosmos", kr.AccountPrefix())
}

func TestNew_DurableCreatesKeysFolder(t *testing.T) {
	home := t.TempDir()

	kr, err := New(Config{
		Backend:       BackendDurable,
		AccountPrefix: "cosmos",
		ChainID:       "ibc-0",
		HomeDir:       home,
	})
	require.NoError(t, err)
	assert.Equal(t, BackendDurable, kr.Backend())

	dir := filepath.Join(home, ".hermes", "keys", "ibc-0", "keyring-test")
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_DurableIdempotentFolderCreation(t *testing.T) {
	home := t.TempDir()
	cfg := Config{
		Backend:       BackendDurable,
		AccountPrefix: "cosmos",
		ChainID:       "ibc-0",
		HomeDir:       home,
	}

	_, err := New(cfg)
	require.NoError(t, err)
	_, err = New(cfg)
	assert.NoError(t, err)
}

func TestKeyFromMnemonic_KnownVector(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)

	assert.Equal(t, testAccount12, entry.Account)
	assert.Equal(t, testAddressHex12, hex.EncodeToString(entry.Address))
	assert.Equal(t, CoinTypeAtom, entry.CoinType)
	assert.True(t, entry.PrivateKey.IsPrivate())
	assert.False(t, entry.PublicKey.IsPrivate())
}

func TestKeyFromMnemonic_KnownVector24Words(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic24, CoinTypeAtom)
	require.NoError(t, err)
	assert.Equal(t, testAccount24, entry.Account)
}

func TestKeyFromMnemonic_CoinTypeNamespacing(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic12, NewCoinType(330))
	require.NoError(t, err)

	// Same mnemonic, different coin type: a different identity.
	assert.Equal(t, testAccount330, entry.Account)
	assert.Equal(t, NewCoinType(330), entry.CoinType)
}

func TestKeyFromMnemonic_Deterministic(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	first, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	second, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)

	assert.Equal(t, first.PrivateKey.String(), second.PrivateKey.String())
	assert.Equal(t, first.PublicKey.String(), second.PublicKey.String())
	assert.Equal(t, first.Account, second.Account)
	assert.Equal(t, first.Address, second.Address)
}

func TestKeyFromMnemonic_PrefixIndependence(t *testing.T) {
	cosmosEntry, err := newTransientRing(t, "cosmos").KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	osmoEntry, err := newTransientRing(t, "osmo").KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)

	// The prefix changes only the textual account form.
	assert.Equal(t, cosmosEntry.Address, osmoEntry.Address)
	assert.Equal(t, cosmosEntry.PrivateKey.String(), osmoEntry.PrivateKey.String())
	assert.Equal(t, testAccount12, cosmosEntry.Account)
	assert.Equal(t, testAccountOsmo12, osmoEntry.Account)
}

func TestKeyFromMnemonic_InvalidMnemonic(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	_, err := kr.KeyFromMnemonic("abandon abandon abandon", CoinTypeAtom)
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestKeyFromMnemonic_DoesNotPersist(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	_, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)

	pairs, err := kr.Keys()
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestKeyRing_StorePassthrough(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	require.NoError(t, kr.AddKey("relayer", entry))

	got, err := kr.GetKey("relayer")
	require.NoError(t, err)
	assert.Equal(t, entry.Account, got.Account)

	assert.ErrorIs(t, kr.AddKey("relayer", entry), ErrExistingKey)

	pairs, err := kr.Keys()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "relayer", pairs[0].Name)

	_, err = kr.GetKey("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKeyFromSeedFile(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	content := `{
		"name": "relayer",
		"type": "local",
		"address": "` + testAccount12 + `",
		"pubkey": "{\"@type\":\"/cosmos.crypto.secp256k1.PubKey\",\"key\":\"` + testPubKeyB64 + `\"}",
		"mnemonic": "` + testMnemonic12 + `",
		"coin_type": 118
	}`

	entry, err := kr.KeyFromSeedFile(content)
	require.NoError(t, err)
	assert.Equal(t, testAccount12, entry.Account)
	assert.Equal(t, testAddressHex12, hex.EncodeToString(entry.Address))
}

func TestKeyFromSeedFile_MalformedJSON(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	_, err := kr.KeyFromSeedFile("{ not json")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestKeyFromSeedFile_Tampered(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	keyFile, err := entry.KeyFile("relayer", testMnemonic24) // wrong mnemonic
	require.NoError(t, err)

	_, err = KeyEntryFromFile(keyFile)
	assert.ErrorIs(t, err, ErrPublicKeyMismatch)
}

func TestSignMsg(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	require.NoError(t, kr.AddKey("relayer", entry))

	sig, err := kr.SignMsg("relayer", []byte("raw transaction bytes"))
	require.NoError(t, err)

	// Fixed-size R || S encoding for secp256k1.
	assert.Len(t, sig, 64)
}

func TestSignMsg_Deterministic(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	entry, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	require.NoError(t, kr.AddKey("relayer", entry))

	msg := []byte("payload")
	first, err := kr.SignMsg("relayer", msg)
	require.NoError(t, err)
	second, err := kr.SignMsg("relayer", msg)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := kr.SignMsg("relayer", []byte("different payload"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
	assert.Len(t, other, 64)
}

func TestSignMsg_KeyNotFound(t *testing.T) {
	kr := newTransientRing(t, "cosmos")

	_, err := kr.SignMsg("missing", []byte("msg"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKeyRing_DurableEndToEnd(t *testing.T) {
	home := t.TempDir()
	kr, err := New(Config{
		Backend:       BackendDurable,
		AccountPrefix: "cosmos",
		ChainID:       "ibc-0",
		HomeDir:       home,
	})
	require.NoError(t, err)

	entry, err := kr.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	require.NoError(t, kr.AddKey("relayer", entry))

	// The key survives a keyring rebuild over the same home.
	kr2, err := New(Config{
		Backend:       BackendDurable,
		AccountPrefix: "cosmos",
		ChainID:       "ibc-0",
		HomeDir:       home,
	})
	require.NoError(t, err)

	got, err := kr2.GetKey("relayer")
	require.NoError(t, err)
	assert.Equal(t, testAccount12, got.Account)

	sig, err := kr2.SignMsg("relayer", []byte("msg"))
	require.NoError(t, err)
	assert.Len(t, sig, 64)

	pairs, err := kr2.Keys()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "relayer", pairs[0].Name)
}

func TestKeyRing_DurableAndTransientSameDerivation(t *testing.T) {
	home := t.TempDir()
	durable, err := New(Config{
		Backend:       BackendDurable,
		AccountPrefix: "cosmos",
		ChainID:       "ibc-0",
		HomeDir:       home,
	})
	require.NoError(t, err)
	transient := newTransientRing(t, "cosmos")

	durableEntry, err := durable.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)
	transientEntry, err := transient.KeyFromMnemonic(testMnemonic12, CoinTypeAtom)
	require.NoError(t, err)

	assert.Equal(t, durableEntry.Account, transientEntry.Account)
	assert.Equal(t, durableEntry.PrivateKey.String(), transientEntry.PrivateKey.String())
}
