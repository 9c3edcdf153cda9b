package entities

import "time"

// Referral records one referrer/referred pair. The pair is unique so the
// bonus can never be paid twice for the same signup.
type Referral struct {
	ID         int64     `db:"id"`
	ReferrerID string    `db:"referrer_id"`
	ReferredID string    `db:"referred_id"`
	Bonus      int64     `db:"bonus"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}
