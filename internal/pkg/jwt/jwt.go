package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity window of every issued token
const TokenLifetime = 7 * 24 * time.Hour

const issuerName = "employee-portal"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the JWT claims. Subject carries the principal record id.
type Claims struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier,omitempty"`
	jwt.RegisteredClaims
}

// PrincipalID returns the record id the token was issued for
func (c *Claims) PrincipalID() string {
	return c.Subject
}

// Issuer signs and verifies bearer tokens with a shared HMAC secret
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer creates a new token issuer. A nil now uses time.Now.
func NewIssuer(secret string, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), now: now}
}

// Issue generates a signed token for principalID carrying role
func (i *Issuer) Issue(principalID, role, identifier string) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(TokenLifetime)

	claims := Claims{
		Role:       role,
		Identifier: identifier,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    issuerName,
			Subject:   principalID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a token and returns its claims. No leeway is applied to expiry.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.Role == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
