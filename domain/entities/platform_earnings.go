package entities

import "time"

// PlatformEarning aggregates the commission collected per day and game kind
type PlatformEarning struct {
	Day             time.Time `db:"day"`
	GameKind        GameKind  `db:"game_kind"`
	TotalCommission int64     `db:"total_commission"`
	GamesCount      int       `db:"games_count"`
}
