package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewToken(jwtAuth, time.Hour)
	assert.NoError(t, err)

	sub, err := VerifyToken(jwtAuth, tok)
	assert.NoError(t, err)
	assert.Empty(t, sub)

	tok, err = NewTokenWithSubject(jwtAuth, time.Hour, "alice")
	require.NoError(t, err)
	sub, err = VerifyToken(jwtAuth, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestTokenExpired(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewTokenWithSubject(jwtAuth, -time.Hour, "alice")
	require.NoError(t, err)

	_, err = VerifyToken(jwtAuth, tok)
	assert.Error(t, err)

	other := jwtauth.New("HS256", []byte("other"), nil)
	tok, err = NewToken(other, time.Hour)
	require.NoError(t, err)
	_, err = VerifyToken(jwtAuth, tok)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)

	ja, err := New(&Config{JWTSecret: "secret", JWTTTL: time.Hour})
	require.NoError(t, err)
	tok, err := NewTokenWithSubject(ja, time.Hour, "bob")
	require.NoError(t, err)
	sub, err := VerifyToken(ja, tok)
	require.NoError(t, err)
	assert.Equal(t, "bob", sub)
}

func TestWithAuth(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	var actor string
	h := WithAuth(jwtAuth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := NewTokenWithSubject(jwtAuth, time.Hour, "alice")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "alice", actor)
}
