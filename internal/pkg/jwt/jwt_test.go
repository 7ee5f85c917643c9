package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	issuer := NewIssuer("secret", clock.Now)

	token, expiresAt, err := issuer.Issue("rec-1", "employee", "EMP0007")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), expiresAt)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", claims.PrincipalID())
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, "EMP0007", claims.Identifier)
}

func TestVerifyExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	issuer := NewIssuer("secret", clock.Now)

	token, _, err := issuer.Issue("rec-1", "admin", "admin")
	require.NoError(t, err)

	clock.t = clock.t.Add(TokenLifetime - time.Second)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Second)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, _, err := NewIssuer("secret-a", nil).Issue("rec-1", "admin", "")
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", nil).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("secret", nil).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		Role: "admin",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "rec-1",
			Issuer:    issuerName,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", nil).Verify(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	claims := Claims{
		Role:             "admin",
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "rec-1", Issuer: issuerName},
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer("secret", nil).Verify(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
