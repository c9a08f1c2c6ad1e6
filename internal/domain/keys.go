package domain

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Seed prefixes for derived record addresses. One prefix per entity kind;
// the full seed tuple uniquely places each record.
const (
	seedCompany   = "company"
	seedAdminRole = "admin_role"
	seedMarket    = "market"
	seedBet       = "bet"
	seedRateLimit = "rate_limit"
)

func deriveKey(parts ...[]byte) Key {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var k Key
	h.Sum(k[:0])
	return k
}

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// CompanyKey derives the record address for a company id.
func CompanyKey(companyID uint64) Key {
	return deriveKey([]byte(seedCompany), u64le(companyID))
}

// AdminRoleKey derives the single role slot for (company, subject).
func AdminRoleKey(company Key, subject Identity) Key {
	return deriveKey([]byte(seedAdminRole), company[:], subject[:])
}

// MarketKey derives the record address for a market under a company.
func MarketKey(company Key, marketID uint64) Key {
	return deriveKey([]byte(seedMarket), company[:], u64le(marketID))
}

// BetKey derives the single bet slot for (market, bettor). One record per
// pair: a second placement collides on this key.
func BetKey(market Key, bettor Identity) Key {
	return deriveKey([]byte(seedBet), market[:], bettor[:])
}

// RateLimitKey derives the fixed-window record for (company, admin).
func RateLimitKey(company Key, admin Identity) Key {
	return deriveKey([]byte(seedRateLimit), company[:], admin[:])
}
