// Package session keeps per-user conversation state in memory. Drafts are
// deliberately transient: a process restart loses them, which costs the
// user a redo but never corrupts the catalog or admin list.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ad/go-telegram-poster/internal/models"
)

// Session is the conversation state of one user: the FSM state, the draft
// being accumulated, and the id of the bot's last prompt message so it can
// be cleaned up before the next one.
type Session struct {
	UserID           int64
	State            string
	Draft            models.Draft
	LastBotMessageID int
	UpdatedAt        time.Time
}

// Store maps user ids to sessions. Sessions older than the TTL are evicted
// so the map cannot grow without bound.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]*Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the user's session, or nil if there is none or it expired.
func (s *Store) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	if s.ttl > 0 && time.Since(sess.UpdatedAt) > s.ttl {
		delete(s.sessions, userID)
		return nil
	}
	return sess
}

// Save stores the session and stamps its activity time.
func (s *Store) Save(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = time.Now()
	s.sessions[sess.UserID] = sess
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// StartJanitor sweeps expired sessions until the context is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
