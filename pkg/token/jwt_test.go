package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID       string
	Username string
}

func TestJwtEngine(t *testing.T) {
	engine := NewEngine("ywitter", "secret")

	tkn, err := engine.Generate(time.Minute, accessToken{ID: "user1", Username: "alice"})
	require.NoError(t, err)

	var got accessToken
	require.NoError(t, engine.Verify(tkn, &got))
	require.Equal(t, accessToken{ID: "user1", Username: "alice"}, got)
}

func TestJwtEngine_Invalid(t *testing.T) {
	engine := NewEngine("ywitter", "secret")

	tkn, err := engine.Generate(-time.Minute, accessToken{ID: "user1"})
	require.NoError(t, err)
	require.ErrorIs(t, engine.Verify(tkn, &accessToken{}), ErrExpired)

	other := NewEngine("ywitter", "other-secret")
	tkn, err = other.Generate(time.Minute, accessToken{ID: "user1"})
	require.NoError(t, err)
	require.Error(t, engine.Verify(tkn, &accessToken{}))

	foreign := NewEngine("someone-else", "secret")
	tkn, err = foreign.Generate(time.Minute, accessToken{ID: "user1"})
	require.NoError(t, err)
	require.Error(t, engine.Verify(tkn, &accessToken{}))
}
