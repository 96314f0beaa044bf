// Package identity wraps the hosted identity provider: password sign-up and
// sign-in, session termination, display-name updates, and identity-change
// notifications delivered through explicit observer registration.
package identity

import (
	"context"
	"errors"
	"sync"
)

// Identity is an authenticated external-provider user record. The app holds
// a read-only reference; the provider owns the record.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider error codes. The finite set the client's error-mapping tables key
// on; unlisted codes fall through to a generic message.
const (
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeUserDisabled      = "auth/user-disabled"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeNetworkFailure    = "auth/network-request-failed"
	CodeInternalError     = "auth/internal-error"
)

// Error carries the provider-specific error code alongside the raw message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// CodeOf returns the provider error code of err, or "" when err carries none.
func CodeOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

type Provider interface {
	// CreateIdentity registers a new identity and signs it in.
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)
	// Authenticate signs an existing identity in.
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
	// EndSession terminates the identity's session.
	EndSession(ctx context.Context, identityID string) error
	// UpdateDisplayName sets the identity's display name.
	UpdateDisplayName(ctx context.Context, identityID, name string) error
	// OnIdentityChanged registers an observer for identity changes (a nil
	// identity means signed out). The returned function unsubscribes; it is
	// safe to call more than once.
	OnIdentityChanged(fn func(*Identity)) (unsubscribe func())
}

// Broadcaster implements OnIdentityChanged for provider implementations.
// Zero value is ready to use; embed it and call Publish on auth events.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]func(*Identity)
}

func (b *Broadcaster) OnIdentityChanged(fn func(*Identity)) func() {
	b.mu.Lock()
	if b.observers == nil {
		b.observers = make(map[int]func(*Identity))
	}
	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.observers, id)
			b.mu.Unlock()
		})
	}
}

// Publish notifies all observers of an identity change.
func (b *Broadcaster) Publish(id *Identity) {
	b.mu.Lock()
	fns := make([]func(*Identity), 0, len(b.observers))
	for _, fn := range b.observers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}
