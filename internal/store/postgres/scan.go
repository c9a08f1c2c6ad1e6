package postgres

import (
	"fmt"

	"github.com/truthprism/prism/internal/domain"
)

// 32-byte columns (keys, identities, digests) are stored as bytea. These
// helpers convert on the way in and out.

func toKey(b []byte) (domain.Key, error) {
	var k domain.Key
	if len(b) != len(k) {
		return k, fmt.Errorf("postgres: key column has %d bytes, want %d", len(b), len(k))
	}
	copy(k[:], b)
	return k, nil
}

func toIdentity(b []byte) (domain.Identity, error) {
	var id domain.Identity
	if len(b) != len(id) {
		return id, fmt.Errorf("postgres: identity column has %d bytes, want %d", len(b), len(id))
	}
	copy(id[:], b)
	return id, nil
}

func toDigest(b []byte) (domain.Digest, error) {
	var d domain.Digest
	if len(b) != len(d) {
		return d, fmt.Errorf("postgres: digest column has %d bytes, want %d", len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}
