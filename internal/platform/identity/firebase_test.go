package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestProvider(handler http.HandlerFunc) (*FirebaseProvider, *httptest.Server) {
	srv := httptest.NewServer(handler)
	p := NewFirebaseProvider("test-key", nil, zerolog.Nop())
	p.endpoint = srv.URL
	return p, srv
}

func TestFirebaseProvider_CreateIdentity(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts:signUp" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %s", r.URL.RawQuery)
		}

		var payload authPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Email != "sara@example.com" || !payload.ReturnSecureToken {
			t.Errorf("unexpected payload: %+v", payload)
		}

		json.NewEncoder(w).Encode(authResponse{LocalID: "uid-1", Email: payload.Email, IDToken: "tok"})
	})
	defer srv.Close()

	var published *Identity
	p.OnIdentityChanged(func(id *Identity) { published = id })

	id, err := p.CreateIdentity(context.Background(), "sara@example.com", "Passw0rd@1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ID != "uid-1" || id.Email != "sara@example.com" {
		t.Errorf("unexpected identity: %+v", id)
	}
	if published == nil || published.ID != "uid-1" {
		t.Error("expected sign-up to publish the new identity")
	}
}

func TestFirebaseProvider_CreateIdentity_EmailExists(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"EMAIL_EXISTS"}}`))
	})
	defer srv.Close()

	_, err := p.CreateIdentity(context.Background(), "sara@example.com", "Passw0rd@1")
	if CodeOf(err) != CodeEmailAlreadyInUse {
		t.Errorf("expected %s, got %v", CodeEmailAlreadyInUse, err)
	}
}

func TestFirebaseProvider_Authenticate(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts:signInWithPassword" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(authResponse{LocalID: "uid-1", Email: "sara@example.com"})
	})
	defer srv.Close()

	id, err := p.Authenticate(context.Background(), "sara@example.com", "Passw0rd@1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ID != "uid-1" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestFirebaseProvider_Authenticate_WrongPassword(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
	})
	defer srv.Close()

	_, err := p.Authenticate(context.Background(), "sara@example.com", "wrong")
	if CodeOf(err) != CodeWrongPassword {
		t.Errorf("expected %s, got %v", CodeWrongPassword, err)
	}
}

func TestFirebaseProvider_NetworkFailure(t *testing.T) {
	p, srv := newTestProvider(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // refuse connections

	_, err := p.Authenticate(context.Background(), "sara@example.com", "Passw0rd@1")
	if CodeOf(err) != CodeNetworkFailure {
		t.Errorf("expected %s, got %v", CodeNetworkFailure, err)
	}
}

func TestFirebaseProvider_EndSession_PublishesNil(t *testing.T) {
	p := NewFirebaseProvider("test-key", nil, zerolog.Nop())

	published := &Identity{ID: "sentinel"}
	p.OnIdentityChanged(func(id *Identity) { published = id })

	if err := p.EndSession(context.Background(), "uid-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published != nil {
		t.Error("expected sign-out to publish a nil identity")
	}
}

func TestTranslateCode(t *testing.T) {
	tests := []struct {
		message string
		code    string
	}{
		{"EMAIL_EXISTS", CodeEmailAlreadyInUse},
		{"WEAK_PASSWORD : Password should be at least 6 characters", CodeWeakPassword},
		{"INVALID_EMAIL", CodeInvalidEmail},
		{"MISSING_EMAIL", CodeInvalidEmail},
		{"EMAIL_NOT_FOUND", CodeUserNotFound},
		{"INVALID_PASSWORD", CodeWrongPassword},
		{"INVALID_LOGIN_CREDENTIALS", CodeInvalidCredential},
		{"USER_DISABLED", CodeUserDisabled},
		{"TOO_MANY_ATTEMPTS_TRY_LATER : Try again later", CodeTooManyRequests},
		{"SOMETHING_ELSE", CodeInternalError},
	}

	for _, tt := range tests {
		if got := translateCode(tt.message); got.Code != tt.code {
			t.Errorf("translateCode(%q) = %s, want %s", tt.message, got.Code, tt.code)
		}
	}
}
