package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedVerifier struct {
	token string
	s     *Session
}

func (f fixedVerifier) Verify(_ context.Context, token string) (*Session, error) {
	if token == f.token {
		return f.s, nil
	}
	return nil, errors.New("no")
}

func TestChainFirstMatchWins(t *testing.T) {
	chain := Chain{
		fixedVerifier{token: "jwt", s: &Session{UID: "u1", Provider: ProviderPassword}},
		nil,
		fixedVerifier{token: "fb", s: &Session{UID: "u2", Provider: ProviderFirebase}},
	}

	s, err := chain.Verify(context.Background(), "fb")
	require.NoError(t, err)
	assert.Equal(t, "u2", s.UID)

	_, err = chain.Verify(context.Background(), "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextRoundTrip(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, "", UID(c))
	_, ok := From(c)
	assert.False(t, ok)

	Set(c, &Session{UID: "u1"})
	assert.Equal(t, "u1", UID(c))
}
