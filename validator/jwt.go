package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/lestrrat-go/jwx/jwt"
)

type key string

const accessToken key = "access_info"

// Access is the authenticated caller, extracted from a verified ID token.
type Access struct {
	UserID   string
	Username string
}

func FromContext(ctx context.Context) (*Access, bool) {
	t, ok := ctx.Value(string(accessToken)).(*Access)
	return t, ok
}

var (
	ErrNoAuthHeader      = errors.New("Authorization header is missing")
	ErrInvalidAuthHeader = errors.New("Authorization header is malformed")
)

// certsURL serves the rotating public keys Firebase signs ID tokens with.
const certsURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// GetJWSFromRequest extracts a JWS string from an Authorization: Bearer <jws> header
func GetJWSFromRequest(req *http.Request) (string, error) {
	authHdr := req.Header.Get("Authorization")
	// Check for the Authorization header.
	if authHdr == "" {
		return "", ErrNoAuthHeader
	}
	// We expect a header value of the form "Bearer <token>", with 1 space after
	// Bearer, per spec.
	prefix := "Bearer "
	if !strings.HasPrefix(authHdr, prefix) {
		return "", ErrInvalidAuthHeader
	}
	return strings.TrimPrefix(authHdr, prefix), nil
}

// Validator verifies Firebase ID tokens against Google's rotating signing
// keys. The key set refreshes itself in the background.
type Validator struct {
	refresher *jwk.AutoRefresh
	projectID string
}

func New(ctx context.Context, projectID string) *Validator {
	ar := jwk.NewAutoRefresh(ctx)
	ar.Configure(certsURL, jwk.WithMinRefreshInterval(15*time.Minute))
	return &Validator{
		refresher: ar,
		projectID: projectID,
	}
}

// Verify parses and validates a raw ID token, returning the caller it
// identifies.
func (v *Validator) Verify(ctx context.Context, raw string) (*Access, error) {
	keySet, err := v.refresher.Fetch(ctx, certsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signing keys: %w", err)
	}
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithIssuer(fmt.Sprintf("https://securetoken.google.com/%s", v.projectID)),
		jwt.WithAudience(v.projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	access := Access{UserID: token.Subject()}
	if name, ok := token.Get("name"); ok {
		if s, ok := name.(string); ok {
			access.Username = s
		}
	}
	return &access, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's Access on the gin context for handlers.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := GetJWSFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		access, err := v.Verify(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(string(accessToken), access)
		c.Next()
	}
}

// AccessFromGin returns the caller stored by Middleware.
func AccessFromGin(c *gin.Context) (*Access, bool) {
	value, ok := c.Get(string(accessToken))
	if !ok {
		return nil, false
	}
	access, ok := value.(*Access)
	return access, ok
}
