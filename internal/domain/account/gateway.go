// Package account wraps sign-up, sign-in, and sign-out against the hosted
// identity provider, plus the profile document written alongside a new
// identity. Pure request/response pass-through: provider errors propagate
// unchanged and nothing is retried.
package account

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/docstore"
	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
)

type Gateway struct {
	ids    identity.Provider
	store  docstore.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewGateway(ids identity.Provider, store docstore.Store, logger zerolog.Logger) *Gateway {
	return &Gateway{ids: ids, store: store, logger: logger, now: time.Now}
}

// SignUp creates the identity, sets its display name, then writes the
// profile document with role "patient". The compound write is not
// transactional: a profile-write failure after identity creation propagates
// the error and leaves an identity with no profile, which later sign-ins
// treat as the default role. No compensating rollback exists.
func (g *Gateway) SignUp(ctx context.Context, email, password string, reg Registration) (*identity.Identity, error) {
	id, err := g.ids.CreateIdentity(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := g.ids.UpdateDisplayName(ctx, id.ID, reg.Name); err != nil {
		return nil, err
	}

	profile := Profile{
		ID:        id.ID,
		Name:      reg.Name,
		Email:     reg.Email,
		Phone:     reg.Phone,
		DOB:       reg.DOB,
		Gender:    reg.Gender,
		Role:      RolePatient,
		CreatedAt: g.now(),
	}
	if err := g.store.Set(ctx, usersCollection, id.ID, profile.fields()); err != nil {
		g.logger.Error().Err(err).Str("identity_id", id.ID).
			Msg("profile write failed after identity creation, identity is orphaned")
		return nil, err
	}

	return id, nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	return g.ids.Authenticate(ctx, email, password)
}

func (g *Gateway) SignOut(ctx context.Context, identityID string) error {
	return g.ids.EndSession(ctx, identityID)
}

// Profile returns the profile document for an identity, or
// docstore.ErrNotFound when none was ever written.
func (g *Gateway) Profile(ctx context.Context, identityID string) (*Profile, error) {
	doc, err := g.store.Get(ctx, usersCollection, identityID)
	if err != nil {
		return nil, err
	}
	return profileFromDoc(doc), nil
}

// ProfileRole resolves the role for an identity. An absent profile resolves
// to the default role without error; only backend failures are returned.
func (g *Gateway) ProfileRole(ctx context.Context, identityID string) (string, error) {
	doc, err := g.store.Get(ctx, usersCollection, identityID)
	if errors.Is(err, docstore.ErrNotFound) {
		return RolePatient, nil
	}
	if err != nil {
		return "", err
	}
	role := docstore.AsString(doc.Data["role"])
	if role == "" {
		role = RolePatient
	}
	return role, nil
}
