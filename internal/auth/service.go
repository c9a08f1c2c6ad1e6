// Package auth authenticates callers. Identities are ed25519 public keys;
// a caller proves control of one by signing a timestamped challenge, and
// receives a short-lived bearer token for the API.
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/truthprism/prism/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrBadSignature = errors.New("auth: signature verification failed")
	ErrStaleRequest = errors.New("auth: challenge timestamp outside window")
)

// maxChallengeSkew bounds how old (or future-dated) a signed challenge may
// be. Keeps a leaked signature from being replayed indefinitely.
const maxChallengeSkew = 5 * time.Minute

// Service exchanges signed challenges for bearer tokens.
type Service struct {
	secret string
	ttl    time.Duration
	clock  domain.Clock
}

func NewService(secret string, ttl time.Duration, clock domain.Clock) *Service {
	return &Service{secret: secret, ttl: ttl, clock: clock}
}

// ChallengeMessage is the exact byte string a caller signs: a fixed prefix
// plus the unix timestamp they claim.
func ChallengeMessage(unixTS int64) []byte {
	return []byte("prism-auth:" + strconv.FormatInt(unixTS, 10))
}

// Authenticate verifies that signature covers ChallengeMessage(unixTS)
// under the identity's ed25519 key and that the timestamp is fresh, then
// issues a token bound to the identity.
func (s *Service) Authenticate(identity domain.Identity, unixTS int64, signature []byte) (string, error) {
	now := s.clock.Now()
	ts := time.Unix(unixTS, 0)
	if ts.Before(now.Add(-maxChallengeSkew)) || ts.After(now.Add(maxChallengeSkew)) {
		return "", fmt.Errorf("auth.Authenticate: %w", ErrStaleRequest)
	}

	if len(signature) != ed25519.SignatureSize {
		return "", fmt.Errorf("auth.Authenticate: %w", ErrBadSignature)
	}

	pub := ed25519.PublicKey(identity[:])
	if !ed25519.Verify(pub, ChallengeMessage(unixTS), signature) {
		return "", fmt.Errorf("auth.Authenticate: %w", ErrBadSignature)
	}

	token, err := IssueToken(s.secret, identity, s.ttl)
	if err != nil {
		return "", fmt.Errorf("auth.Authenticate: %w", err)
	}

	return token, nil
}
