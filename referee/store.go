package referee

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("no referee session for fixture")

// Store holds the sessions of fixtures currently being refereed.
type Store struct {
	mu       sync.RWMutex
	sessions map[int]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int]*Session)}
}

func (s *Store) Get(fixtureID int) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[fixtureID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) GetOrCreate(fixtureID int) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[fixtureID]
	if !ok {
		session = NewSession(fixtureID)
		s.sessions[fixtureID] = session
	}
	return session
}

func (s *Store) Delete(fixtureID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, fixtureID)
}

func (s *Store) all() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

// TickAll advances every running session and returns the ones that moved.
func (s *Store) TickAll() []*Session {
	var ticked []*Session
	for _, session := range s.all() {
		if session.Tick() {
			ticked = append(ticked, session)
		}
	}
	return ticked
}

// Clock drives all sessions with a one-second ticker.
type Clock struct {
	store    *Store
	interval time.Duration
	onTick   func(Snapshot)
	logger   *slog.Logger
}

// NewClock returns a clock ticking every second. onTick, when set, receives a snapshot of
// every session that advanced.
func NewClock(store *Store, onTick func(Snapshot), logger *slog.Logger) *Clock {
	return &Clock{store: store, interval: time.Second, onTick: onTick, logger: logger}
}

func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	c.logger.Info("Referee clock started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Referee clock stopped")
			return
		case <-ticker.C:
			for _, session := range c.store.TickAll() {
				if c.onTick != nil {
					c.onTick(session.Snapshot())
				}
			}
		}
	}
}
