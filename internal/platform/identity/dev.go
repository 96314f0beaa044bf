package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DevProvider is an in-process identity provider for development without
// hosted credentials. It mimics the hosted provider's error codes so the
// client-facing error mapping behaves the same in both modes.
type DevProvider struct {
	Broadcaster

	mu    sync.Mutex
	users map[string]*devUser // keyed by lowercased email
}

type devUser struct {
	id       string
	email    string
	password string
	name     string
}

func NewDevProvider() *DevProvider {
	return &DevProvider{users: make(map[string]*devUser)}
}

func (p *DevProvider) CreateIdentity(_ context.Context, email, password string) (*Identity, error) {
	key := strings.ToLower(email)

	p.mu.Lock()
	if _, exists := p.users[key]; exists {
		p.mu.Unlock()
		return nil, &Error{Code: CodeEmailAlreadyInUse, Message: "EMAIL_EXISTS"}
	}
	if len(password) < 6 {
		p.mu.Unlock()
		return nil, &Error{Code: CodeWeakPassword, Message: "WEAK_PASSWORD"}
	}
	u := &devUser{id: uuid.NewString(), email: email, password: password}
	p.users[key] = u
	p.mu.Unlock()

	id := &Identity{ID: u.id, Email: u.email}
	p.Publish(id)
	return id, nil
}

func (p *DevProvider) Authenticate(_ context.Context, email, password string) (*Identity, error) {
	p.mu.Lock()
	u, ok := p.users[strings.ToLower(email)]
	p.mu.Unlock()

	if !ok {
		return nil, &Error{Code: CodeUserNotFound, Message: "EMAIL_NOT_FOUND"}
	}
	if u.password != password {
		return nil, &Error{Code: CodeWrongPassword, Message: "INVALID_PASSWORD"}
	}

	id := &Identity{ID: u.id, Email: u.email}
	p.Publish(id)
	return id, nil
}

func (p *DevProvider) EndSession(_ context.Context, _ string) error {
	p.Publish(nil)
	return nil
}

func (p *DevProvider) UpdateDisplayName(_ context.Context, identityID, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.users {
		if u.id == identityID {
			u.name = name
			return nil
		}
	}
	return &Error{Code: CodeUserNotFound, Message: "EMAIL_NOT_FOUND"}
}
