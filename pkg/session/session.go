// Package session keeps live force views for the frame server.
//
// Each [Session] owns an [app.App] and the [app.Loop] goroutine that is its
// only writer. Sessions expire after a period without requests; [Store.Cleanup]
// stops and removes them.
//
//	store := session.NewStore(session.DefaultTTL, logger)
//	sess := store.Start(ctx, "senate.json", a)
//	err := sess.Do(ctx, func(a *app.App) error { ... })
//	store.Delete(sess.ID)
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/app"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// DefaultTTL is how long a session survives without requests.
const DefaultTTL = 30 * time.Minute

// Session is one live view.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	App  *app.App  `json:"-"`
	Loop *app.Loop `json:"-"`

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// IsExpired reports whether the session idled past its deadline at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Done is closed once the loop goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Do runs fn on the session loop and waits for it. It fails with
// SESSION_NOT_FOUND if the session stops first.
func (s *Session) Do(ctx context.Context, fn func(*app.App) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	err := s.Loop.Do(ctx, fn)
	if err != nil && s.ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return errs.New(errs.ErrCodeSessionNotFound, "session %s stopped", s.ID)
	}
	return err
}

func (s *Session) stop() {
	s.cancel()
	<-s.done
}

// Store is an in-memory registry of sessions.
type Store struct {
	TTL    time.Duration
	Logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty store. ttl <= 0 uses [DefaultTTL].
func NewStore(ttl time.Duration, logger *log.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{TTL: ttl, Logger: logger, sessions: make(map[string]*Session), now: time.Now}
}

// Start registers a session for a and starts its loop. The loop runs until
// the session is deleted or ctx is cancelled.
func (s *Store) Start(ctx context.Context, source string, a *app.App) *Session {
	ctx, cancel := context.WithCancel(ctx)
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
		App:       a,
		Loop:      app.NewLoop(a, nil),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go func() {
		defer close(sess.done)
		if err := sess.Loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.Logger.Warn("session loop stopped", "id", sess.ID, "err", err)
		}
	}()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.Logger.Info("session started", "id", sess.ID, "source", source)
	return sess
}

// Get returns a live session and extends its deadline. Unknown and
// expired ids return SESSION_NOT_FOUND.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	now := s.now()
	if ok && !sess.IsExpired(now) {
		sess.ExpiresAt = now.Add(s.TTL)
		s.mu.Unlock()
		return sess, nil
	}
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if ok {
		sess.stop()
		s.Logger.Info("session expired", "id", id)
	}
	return nil, errs.New(errs.ErrCodeSessionNotFound, "session %s not found", id)
}

// Delete stops and removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errs.New(errs.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess.stop()
	s.Logger.Info("session stopped", "id", id)
	return nil
}

// Cleanup stops every expired session and returns how many were removed.
func (s *Store) Cleanup() int {
	now := s.now()
	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.stop()
	}
	if len(expired) > 0 {
		s.Logger.Info("expired sessions", "count", len(expired))
	}
	return len(expired)
}

// Sweep runs Cleanup every interval until ctx is cancelled.
func (s *Store) Sweep(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Cleanup()
		}
	}
}

// Len returns the number of registered sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops every session.
func (s *Store) Close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range all {
		sess.stop()
	}
}
