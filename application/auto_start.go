package application

import (
	"context"
	"sync"
	"time"

	"quizclash/domain/entities"

	log "github.com/sirupsen/logrus"
)

// AutoStartScheduler arms one countdown per waiting room once it reaches
// the minimum viable membership. The countdown is idempotent: repeated
// joins while a timer is armed do not reset it. When the timer fires the
// start itself re-checks the room under lock, so a room that emptied out
// in the meantime simply stays waiting.
type AutoStartScheduler struct {
	starter GameStarter

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewAutoStartScheduler creates a scheduler that starts rooms through the
// given starter
func NewAutoStartScheduler(starter GameStarter) *AutoStartScheduler {
	return &AutoStartScheduler{
		starter: starter,
		timers:  make(map[string]*time.Timer),
	}
}

// Schedule arms the countdown for a room. A no-op when one is already
// armed or the scheduler has shut down.
func (s *AutoStartScheduler) Schedule(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, armed := s.timers[gameID]; armed {
		return
	}

	s.timers[gameID] = time.AfterFunc(entities.AutoStartDelay, func() {
		s.fire(gameID)
	})
	log.WithFields(log.Fields{
		"gameID": gameID,
		"delay":  entities.AutoStartDelay,
	}).Debug("Auto-start countdown armed")
}

// Cancel disarms a room's countdown, if armed
func (s *AutoStartScheduler) Cancel(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[gameID]; ok {
		timer.Stop()
		delete(s.timers, gameID)
	}
}

// Stop disarms all countdowns and rejects further scheduling
func (s *AutoStartScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *AutoStartScheduler) fire(gameID string) {
	s.mu.Lock()
	delete(s.timers, gameID)
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.starter.StartGame(ctx, gameID); err != nil {
		log.WithError(err).WithField("gameID", gameID).Error("Auto-start failed")
	}
}
