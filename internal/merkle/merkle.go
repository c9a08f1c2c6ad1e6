// Package merkle verifies employee membership proofs against a company's
// published root. It is pure: no state lookups, bit-for-bit reproducible
// across implementations.
package merkle

import (
	"bytes"

	"golang.org/x/crypto/sha3"

	"github.com/truthprism/prism/internal/domain"
)

// MaxProofDepth bounds proof length (24 levels supports ~16M leaves).
// Callers reject longer proofs before Verify runs.
const MaxProofDepth = 24

func keccak256(parts ...[]byte) domain.Digest {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var d domain.Digest
	h.Sum(d[:0])
	return d
}

// Leaf hashes an identity's canonical 32 raw bytes into its tree leaf.
func Leaf(id domain.Identity) domain.Digest {
	return keccak256(id[:])
}

// Verify folds the leaf through the ordered proof elements and compares the
// result with root. Each pair is sorted byte-wise before hashing, so the
// result does not depend on whether siblings were recorded (left,right) or
// (right,left).
func Verify(proof []domain.Digest, root, leaf domain.Digest) bool {
	computed := leaf
	for _, el := range proof {
		if bytes.Compare(computed[:], el[:]) <= 0 {
			computed = keccak256(computed[:], el[:])
		} else {
			computed = keccak256(el[:], computed[:])
		}
	}
	return computed == root
}

// Node combines two digests the same way Verify does. Exposed so tests and
// offline tooling can build small trees that verify against this package.
func Node(a, b domain.Digest) domain.Digest {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return keccak256(a[:], b[:])
	}
	return keccak256(b[:], a[:])
}
