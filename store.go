package hermesring

// NamedKey pairs a key name with its entry, as returned by Keys.
type NamedKey struct {
	Name  string
	Entry KeyEntry
}

// KeyStore is the capability shared by all storage backends: point lookup,
// create-only insertion and enumeration. Key names are unique within a
// store instance; uniqueness is enforced at AddKey time.
//
// Implementations are not internally synchronized. AddKey inspects then
// writes and requires exclusive access to the instance; concurrent reads
// are safe with each other but not with a concurrent AddKey.
type KeyStore interface {
	// GetKey returns the entry stored under name.
	GetKey(name string) (KeyEntry, error)

	// AddKey stores entry under name. It never overwrites: ErrExistingKey
	// is returned when the name is already present.
	AddKey(name string, entry KeyEntry) error

	// Keys enumerates all stored entries. Ordering is backend-defined.
	Keys() ([]NamedKey, error)
}
