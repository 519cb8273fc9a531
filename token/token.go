package token

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marcelsud/activity-refiner/fault"
	"github.com/rs/zerolog"
)

// ErrIncomplete is returned when the stored record lacks a token
var ErrIncomplete = errors.New("credential record is incomplete")

// Pair is the access/refresh token pair of the single owner
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens are present
func (p Pair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Store persists the credential record
type Store interface {
	Load(ctx context.Context) (Pair, error)
	Save(ctx context.Context, pair Pair) error
}

// Session is the shared, mutable view of the current token pair
type Session struct {
	mu   sync.RWMutex
	pair Pair
}

// AccessToken returns the current access token
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.AccessToken
}

// RefreshToken returns the current refresh token
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.RefreshToken
}

// Rotate replaces the pair after a refresh
func (s *Session) Rotate(pair Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
}

func (s *Session) snapshot() Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// Manager loads the credential record once and persists rotations
type Manager struct {
	store  Store
	logger zerolog.Logger

	mu       sync.Mutex
	session  *Session
	baseline Pair
}

// NewManager creates a new token manager
func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Session returns the process-wide session, loading it on first use.
// Concurrent first callers wait for the single load. A failed load is not
// cached so a reseeded record is picked up by the next unit.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	pair, err := m.store.Load(ctx)
	if err != nil {
		if _, ok := fault.KindOf(err); ok {
			return nil, err
		}
		// the store itself is unreachable; the credentials may be fine
		return nil, fault.New(fault.UpstreamTransient, "token.load", err)
	}
	if !pair.Complete() {
		return nil, fault.New(fault.UpstreamAuth, "token.load", ErrIncomplete)
	}

	m.session = &Session{pair: pair}
	m.baseline = pair
	m.logger.Info().Msg("credential record loaded")
	return m.session, nil
}

// Do runs one authenticated unit of work. Whatever fn returns, a rotated
// pair is persisted before Do returns and persist errors are joined to
// the unit's error.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context, s *Session) error) (err error) {
	s, err := m.Session(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if perr := m.persistIfRotated(context.WithoutCancel(ctx), s); perr != nil {
			err = errors.Join(err, perr)
		}
	}()

	return fn(ctx, s)
}

func (m *Manager) persistIfRotated(ctx context.Context, s *Session) error {
	current := s.snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()

	if current == m.baseline {
		return nil
	}
	if err := m.store.Save(ctx, current); err != nil {
		return fmt.Errorf("persisting rotated token: %w", err)
	}
	m.baseline = current
	m.logger.Info().Msg("rotated credential persisted")
	return nil
}
