package auth

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "crm-test"})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	actor := uuid.New()

	token, err := svc.GenerateToken(actor, "ada", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	got, err := claims.ActorUUID()
	require.NoError(t, err)
	assert.Equal(t, actor, got)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "crm-test", claims.Issuer)
	assert.InDelta(t, time.Hour.Seconds(), claims.GetRemainingTTL().Seconds(), 5)
}

func TestJWTService_Rejections(t *testing.T) {
	svc := newTestJWTService()
	actor := uuid.New()

	sign := func(claims *Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	registered := func(issuer string, exp, nbf time.Time) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(nbf),
		}
	}
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{
			"wrong secret",
			sign(&Claims{RegisteredClaims: registered("crm-test", now.Add(time.Hour), now), ActorID: actor.String()},
				jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx")),
			ErrInvalidToken,
		},
		{
			"expired",
			sign(&Claims{RegisteredClaims: registered("crm-test", now.Add(-time.Minute), now.Add(-time.Hour)), ActorID: actor.String()},
				jwt.SigningMethodHS256, []byte(testSecret)),
			ErrExpiredToken,
		},
		{
			"not yet valid",
			sign(&Claims{RegisteredClaims: registered("crm-test", now.Add(2*time.Hour), now.Add(time.Hour)), ActorID: actor.String()},
				jwt.SigningMethodHS256, []byte(testSecret)),
			ErrTokenNotYetValid,
		},
		{
			"wrong issuer",
			sign(&Claims{RegisteredClaims: registered("someone-else", now.Add(time.Hour), now), ActorID: actor.String()},
				jwt.SigningMethodHS256, []byte(testSecret)),
			ErrInvalidToken,
		},
		{
			"other hmac algorithm",
			sign(&Claims{RegisteredClaims: registered("crm-test", now.Add(time.Hour), now), ActorID: actor.String()},
				jwt.SigningMethodHS512, []byte(testSecret)),
			ErrInvalidToken,
		},
		{
			"missing actor",
			sign(&Claims{RegisteredClaims: registered("crm-test", now.Add(time.Hour), now)},
				jwt.SigningMethodHS256, []byte(testSecret)),
			ErrMissingActorID,
		},
		{
			"actor not a uuid",
			sign(&Claims{RegisteredClaims: registered("crm-test", now.Add(time.Hour), now), ActorID: "admin"},
				jwt.SigningMethodHS256, []byte(testSecret)),
			ErrInvalidClaims,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_NoIssuerConfigured(t *testing.T) {
	issuing := NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "anyone"})
	token, err := issuing.GenerateToken(uuid.New(), "", time.Minute)
	require.NoError(t, err)

	lenient := NewJWTService(config.JWTConfig{Secret: testSecret})
	_, err = lenient.ValidateToken(token)
	assert.NoError(t, err)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).GetRemainingTTL())

	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}
	assert.Zero(t, past.GetRemainingTTL())
}
