package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// FirebaseProvider talks to the Google Identity Toolkit REST API for
// password sign-up and sign-in (the same backend the mobile client uses)
// and to the Firebase Admin SDK for display-name updates and refresh-token
// revocation. REST error messages are normalized to the auth/... code
// strings the client tables key on.
type FirebaseProvider struct {
	Broadcaster

	apiKey   string
	endpoint string
	client   *http.Client
	admin    *fbauth.Client
	logger   zerolog.Logger
}

func NewFirebaseProvider(apiKey string, admin *fbauth.Client, logger zerolog.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		admin:    admin,
		logger:   logger,
	}
}

type authPayload struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) CreateIdentity(ctx context.Context, email, password string) (*Identity, error) {
	var resp authResponse
	if err := p.post(ctx, "signUp", authPayload{Email: email, Password: password, ReturnSecureToken: true}, &resp); err != nil {
		return nil, err
	}
	id := &Identity{ID: resp.LocalID, Email: resp.Email}
	p.Publish(id)
	return id, nil
}

func (p *FirebaseProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	var resp authResponse
	if err := p.post(ctx, "signInWithPassword", authPayload{Email: email, Password: password, ReturnSecureToken: true}, &resp); err != nil {
		return nil, err
	}
	id := &Identity{ID: resp.LocalID, Email: resp.Email}
	p.Publish(id)
	return id, nil
}

func (p *FirebaseProvider) EndSession(ctx context.Context, identityID string) error {
	if p.admin != nil {
		if err := p.admin.RevokeRefreshTokens(ctx, identityID); err != nil {
			return fmt.Errorf("revoke refresh tokens: %w", err)
		}
	}
	p.Publish(nil)
	return nil
}

func (p *FirebaseProvider) UpdateDisplayName(ctx context.Context, identityID, name string) error {
	if p.admin == nil {
		return &Error{Code: CodeInternalError, Message: "admin client not configured"}
	}
	update := (&fbauth.UserToUpdate{}).DisplayName(name)
	if _, err := p.admin.UpdateUser(ctx, identityID, update); err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) post(ctx context.Context, action string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}

	url := fmt.Sprintf("%s/accounts:%s?key=%s", p.endpoint, action, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &Error{Code: CodeNetworkFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err != nil {
			return &Error{Code: CodeInternalError, Message: fmt.Sprintf("provider returned status %d", resp.StatusCode)}
		}
		perr := translateCode(ae.Error.Message)
		p.logger.Debug().Str("action", action).Str("code", perr.Code).Msg("provider request failed")
		return perr
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// translateCode maps Identity Toolkit error messages (e.g. "EMAIL_EXISTS" or
// "WEAK_PASSWORD : Password should be at least 6 characters") onto the
// client-facing auth/... codes.
func translateCode(message string) *Error {
	code := message
	if i := strings.IndexAny(message, " :"); i >= 0 {
		code = message[:i]
	}

	e := &Error{Message: message}
	switch code {
	case "EMAIL_EXISTS":
		e.Code = CodeEmailAlreadyInUse
	case "WEAK_PASSWORD":
		e.Code = CodeWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		e.Code = CodeInvalidEmail
	case "EMAIL_NOT_FOUND":
		e.Code = CodeUserNotFound
	case "INVALID_PASSWORD":
		e.Code = CodeWrongPassword
	case "INVALID_LOGIN_CREDENTIALS":
		e.Code = CodeInvalidCredential
	case "USER_DISABLED":
		e.Code = CodeUserDisabled
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		e.Code = CodeTooManyRequests
	default:
		e.Code = CodeInternalError
	}
	return e
}
