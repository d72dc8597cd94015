package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bondaralexcy/medical-diagnostic/internal/model"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	account := &model.Account{ID: uuid.New(), Email: "doc@example.com"}

	tok, err := svc.GenerateAccessToken(account)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)

	claims, err := svc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, account.Email, claims.Email)
}

func TestJWT_RejectsForeignSignature(t *testing.T) {
	account := &model.Account{ID: uuid.New(), Email: "doc@example.com"}
	tok, err := NewJWTService("one", time.Hour).GenerateAccessToken(account)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).ValidateToken(tok.AccessToken)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestJWT_RejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := svc.GenerateAccessToken(&model.Account{ID: uuid.New()})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok.AccessToken)
	assert.Error(t, err)
}
