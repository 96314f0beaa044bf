// Package session holds the current authenticated identity and its derived
// role. The store subscribes to the identity provider's change stream on
// construction and publishes identity, role, and a loading flag; profile
// lookup failures degrade to the default role and are never surfaced.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
)

// DefaultRole is published when the profile is missing, carries no role, or
// cannot be read. A documented fallback, not an error.
const DefaultRole = "patient"

// ProfileSource resolves an identity's role from its profile document. A
// missing profile resolves to DefaultRole without error.
type ProfileSource interface {
	ProfileRole(ctx context.Context, identityID string) (string, error)
}

// Subscription is the slice of the identity provider the store needs.
type Subscription interface {
	OnIdentityChanged(fn func(*identity.Identity)) (unsubscribe func())
}

type Store struct {
	mu       sync.RWMutex
	identity *identity.Identity
	role     string
	loading  bool

	profiles  ProfileSource
	logger    zerolog.Logger
	unsub     func()
	closeOnce sync.Once
}

// NewStore subscribes to identity changes and returns the store with
// loading=true until the first notification is handled.
func NewStore(events Subscription, profiles ProfileSource, logger zerolog.Logger) *Store {
	s := &Store{
		loading:  true,
		profiles: profiles,
		logger:   logger,
	}
	s.unsub = events.OnIdentityChanged(s.handleChange)
	return s
}

func (s *Store) handleChange(id *identity.Identity) {
	if id != nil {
		s.SetIdentity(id)

		role, err := s.profiles.ProfileRole(context.Background(), id.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("identity_id", id.ID).Msg("profile lookup failed, using default role")
			role = DefaultRole
		}
		if role == "" {
			role = DefaultRole
		}
		s.SetRole(role)
	} else {
		s.SetIdentity(nil)
		s.SetRole("")
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) Identity() *identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetIdentity and SetRole are exposed for direct use by the view layer;
// there is no single-writer invariant.
func (s *Store) SetIdentity(id *identity.Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

func (s *Store) SetRole(role string) {
	s.mu.Lock()
	s.role = role
	s.mu.Unlock()
}

// Close unsubscribes from the identity-change stream. Safe to call more
// than once; the unsubscribe runs exactly once.
func (s *Store) Close() {
	s.closeOnce.Do(s.unsub)
}
