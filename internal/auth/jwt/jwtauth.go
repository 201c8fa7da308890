package jwt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	// AuthHeaderKey is the header carrying the bearer token.
	AuthHeaderKey = "Authorization"
)

type contextKey string

const actorKey contextKey = "actor"

// Config holds the token signing settings.
type Config struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
}

// New returns an HS256 signer/verifier for the configured secret.
func New(c *Config) (*jwtauth.JWTAuth, error) {
	if c == nil || c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return jwtauth.New("HS256", []byte(c.JWTSecret), nil), nil
}

func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	return t.Subject(), nil
}

func NewToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration) (string, error) {
	return NewTokenWithSubject(jwtAuth, ttl, "")
}

// NewTokenWithSubject creates a JWT with optional subject (moderator name) claim.
// The subject becomes the actor recorded on decisions.
func NewTokenWithSubject(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, subject string) (string, error) {
	claims := map[string]interface{}{
		"exp": time.Now().Add(ttl).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return ts, err
	}
	return ts, nil
}

// WithAuth rejects requests without a valid bearer token and stores the
// token subject as the request actor.
func WithAuth(jwtAuth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get(AuthHeaderKey), "Bearer ")
			sub, err := VerifyToken(jwtAuth, token)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token %v", err.Error()), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), sub)))
		})
	}
}

// WithActor returns a copy of ctx carrying the acting moderator.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the moderator stored by WithAuth, or an empty string.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok {
		return actor
	}
	return ""
}
