// Package session keeps one grade model per interactive session in memory.
// Nothing is persisted: sessions vanish when they expire or the process exits.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/pavelanni/gradeace/internal/grade"
	"github.com/pavelanni/gradeace/internal/model"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// Session is one user's calculator. The model is only reachable through Do,
// which serializes access.
type Session struct {
	ID string

	store     *Store
	mu        sync.Mutex
	model     *grade.Model
	toasts    []model.Toast
	expiresAt time.Time
}

// Do runs fn with exclusive access to the session's model and extends the
// session's lifetime.
func (s *Session) Do(fn func(m *grade.Model)) {
	if s.store != nil {
		s.store.touch(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.model)
}

// Notify queues a toast to be shown on the next render. It implements
// grade.Notifier and is safe to call from inside Do.
func (s *Session) Notify(severity grade.Severity, title, message string) {
	s.toasts = append(s.toasts, model.Toast{Severity: string(severity), Title: title, Message: message})
}

// Drain returns the pending toasts and clears the queue.
func (s *Session) Drain() []model.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.toasts
	s.toasts = nil
	return t
}

// Store holds all live sessions.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	newModel func() *grade.Model
	now      func() time.Time
}

// NewStore creates an empty store. newModel builds the model of each new
// session; nil means grade.NewModel with defaults.
func NewStore(ttl time.Duration, newModel func() *grade.Model) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if newModel == nil {
		newModel = func() *grade.Model { return grade.NewModel() }
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		newModel: newModel,
		now:      time.Now,
	}
}

// Create starts a new session with a fresh model.
func (s *Store) Create() (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: token, store: s, model: s.newModel()}

	s.mu.Lock()
	sess.expiresAt = s.now().Add(s.ttl)
	s.sessions[token] = sess
	s.mu.Unlock()

	slog.Debug("created session", "id", token[:8])
	return sess, nil
}

// Get returns the session for token and extends its lifetime, or nil if it
// is missing or expired.
func (s *Store) Get(token string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil
	}
	now := s.now()
	if now.After(sess.expiresAt) {
		delete(s.sessions, token)
		return nil
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess
}

// touch pushes the expiry of a live session forward. Expired sessions stay
// expired.
func (s *Store) touch(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.After(sess.expiresAt) {
		return
	}
	sess.expiresAt = now.Add(s.ttl)
}

// Delete removes a session.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes all expired sessions and returns how many were removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
