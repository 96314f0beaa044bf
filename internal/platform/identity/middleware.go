package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// GoogleCertURL serves the x509 certificates Firebase ID tokens are signed
// with, as a JSON object of kid -> PEM certificate.
const GoogleCertURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const identityContextKey = "identity"

// Claims are the ID-token claims the middleware cares about.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// CertCache caches the token-signing certificates with a TTL, refetching on
// expiry or on an unknown kid.
type CertCache struct {
	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	certURL   string
	ttl       time.Duration
	fetchedAt time.Time
	client    *http.Client
}

func NewCertCache(certURL string, ttl time.Duration) *CertCache {
	if certURL == "" {
		certURL = GoogleCertURL
	}
	return &CertCache{
		keys:    make(map[string]*rsa.PublicKey),
		certURL: certURL,
		ttl:     ttl,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetKey returns the RSA public key for the given kid, fetching fresh
// certificates when the cache is expired or the kid is unknown.
func (c *CertCache) GetKey(kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	expired := time.Since(c.fetchedAt) > c.ttl
	c.mu.RUnlock()

	if ok && !expired {
		return key, nil
	}

	if err := c.fetch(); err != nil {
		return nil, fmt.Errorf("fetching signing certs: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok = c.keys[kid]
	if !ok {
		return nil, fmt.Errorf("signing cert with kid %q not found", kid)
	}
	return key, nil
}

func (c *CertCache) fetch() error {
	resp, err := c.client.Get(c.certURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", c.certURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cert endpoint returned status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("decoding cert response: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemCert := range certs {
		block, _ := pem.Decode([]byte(pemCert))
		if block == nil {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			continue
		}
		if pub, ok := cert.PublicKey.(*rsa.PublicKey); ok {
			keys[kid] = pub
		}
	}

	c.mu.Lock()
	c.keys = keys
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// TokenConfig configures ID-token verification for a Firebase project.
type TokenConfig struct {
	ProjectID string
	Cache     *CertCache
}

// TokenMiddleware verifies bearer ID tokens and stores the authenticated
// identity on the request context.
func TokenMiddleware(cfg TokenConfig) echo.MiddlewareFunc {
	cache := cfg.Cache
	if cache == nil {
		cache = NewCertCache(GoogleCertURL, time.Hour)
	}
	issuer := "https://securetoken.google.com/" + cfg.ProjectID

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				kid, _ := t.Header["kid"].(string)
				return cache.GetKey(kid)
			},
				jwt.WithValidMethods([]string{"RS256"}),
				jwt.WithIssuer(issuer),
				jwt.WithAudience(cfg.ProjectID),
			)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			uid := claims.UserID
			if uid == "" {
				uid = claims.Subject
			}
			c.Set(identityContextKey, &Identity{ID: uid, Email: claims.Email})
			return next(c)
		}
	}
}

// DevAuthMiddleware trusts X-Debug-User / X-Debug-Email headers. Development
// only; the serve command refuses to install it outside ENV=development.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := c.Request().Header.Get("X-Debug-User")
			if uid == "" {
				uid = "dev-user"
			}
			email := c.Request().Header.Get("X-Debug-Email")
			if email == "" {
				email = "dev@example.com"
			}
			c.Set(identityContextKey, &Identity{ID: uid, Email: email})
			return next(c)
		}
	}
}

// FromContext returns the authenticated identity set by the middleware, or
// nil when the request carries none.
func FromContext(c echo.Context) *Identity {
	id, _ := c.Get(identityContextKey).(*Identity)
	return id
}

// SetContext stores an identity on the request context. Used by tests and by
// handlers that accept an identity from the session store.
func SetContext(c echo.Context, id *Identity) {
	c.Set(identityContextKey, id)
}
