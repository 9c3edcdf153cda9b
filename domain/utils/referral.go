package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// referral codes avoid ambiguous characters (0/O, 1/I/L)
const referralAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// ReferralCodeLength is the length of generated referral codes
const ReferralCodeLength = 8

// GenerateReferralCode returns a random uppercase referral code.
// Uniqueness is enforced by the database constraint; callers retry
// on collision.
func GenerateReferralCode() string {
	var sb strings.Builder
	sb.Grow(ReferralCodeLength)
	max := big.NewInt(int64(len(referralAlphabet)))
	for i := 0; i < ReferralCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the system source is broken
			panic(err)
		}
		sb.WriteByte(referralAlphabet[n.Int64()])
	}
	return sb.String()
}
