package domain

import (
	"encoding/hex"
	"fmt"
)

// Identity is the 32-byte public key of a caller (company authority, admin,
// or employee). The ledger environment authenticates it; the core treats it
// as an opaque, unforgeable value.
type Identity [32]byte

// Digest is a 32-byte keccak-256 output: merkle roots, leaves, and proof
// elements.
type Digest [32]byte

// Key is a derived record address: a keccak-256 digest of a stable seed
// tuple (entity kind + owning references). Any component can recompute it
// without an index.
type Key [32]byte

func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("domain.ParseIdentity: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("domain.ParseIdentity: want %d bytes, got %d", len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("domain.ParseDigest: %w", err)
	}
	if len(b) != len(d) {
		return d, fmt.Errorf("domain.ParseDigest: want %d bytes, got %d", len(d), len(b))
	}
	copy(d[:], b)
	return d, nil
}

func ParseKey(s string) (Key, error) {
	var k Key
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("domain.ParseKey: %w", err)
	}
	if len(b) != len(k) {
		return k, fmt.Errorf("domain.ParseKey: want %d bytes, got %d", len(k), len(b))
	}
	copy(k[:], b)
	return k, nil
}

func (id Identity) String() string { return hex.EncodeToString(id[:]) }
func (d Digest) String() string    { return hex.EncodeToString(d[:]) }
func (k Key) String() string       { return hex.EncodeToString(k[:]) }

func (id Identity) IsZero() bool { return id == Identity{} }

// Account returns the identity viewed as a ledger account address. Derived
// record keys double as fee-collection accounts (company accounts receive
// grant fees).
func (k Key) Account() Identity { return Identity(k) }

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentity(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(b []byte) error {
	parsed, err := ParseDigest(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
