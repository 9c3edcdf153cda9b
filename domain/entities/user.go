package entities

import (
	"time"
)

// User represents a player account keyed by the identity provider's stable uid
type User struct {
	UID           string    `db:"uid"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Phone         *string   `db:"phone"`
	WalletBalance int64     `db:"wallet_balance"`
	ReferralCode  string    `db:"referral_code"`
	ReferredBy    *string   `db:"referred_by"`
	TotalGames    int       `db:"total_games"`
	TotalWins     int       `db:"total_wins"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	LastActive    time.Time `db:"last_active"`
}

// CanAfford checks if the user has sufficient balance for an amount
func (u *User) CanAfford(amount int64) bool {
	return u.WalletBalance >= amount
}

// HasPositiveBalance checks if the user has a positive balance
func (u *User) HasPositiveBalance() bool {
	return u.WalletBalance > 0
}

// WinRate returns the fraction of games won, 0 for a fresh account
func (u *User) WinRate() float64 {
	if u.TotalGames == 0 {
		return 0
	}
	return float64(u.TotalWins) / float64(u.TotalGames)
}
