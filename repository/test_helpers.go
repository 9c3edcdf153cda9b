package repository

import (
	"quizclash/application"
	"quizclash/database"
	"quizclash/domain/events"
)

// NewTestUnitOfWorkFactory creates a unit of work factory over a fresh bus
// for tests that do not assert on event delivery
func NewTestUnitOfWorkFactory(db *database.DB) application.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, events.NewBus())
}
