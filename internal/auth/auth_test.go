package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier("topsecret")
	raw := signToken(t, "topsecret", Claims{
		Name:  "Fran",
		Email: "fran@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|abc123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", claims.Subject)
	assert.Equal(t, "fran@example.com", claims.Email)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewVerifier("topsecret")
	raw := signToken(t, "othersecret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|abc123"},
	})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewVerifier("topsecret")
	raw := signToken(t, "topsecret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|abc123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsEmptySubject(t *testing.T) {
	v := NewVerifier("topsecret")
	raw := signToken(t, "topsecret", Claims{})

	_, err := v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromAuthorizationHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", nil},
		{"empty", "", "", ErrMissingToken},
		{"wrong scheme", "Basic abc", "", ErrInvalidToken},
		{"no token", "Bearer", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAuthorizationHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
