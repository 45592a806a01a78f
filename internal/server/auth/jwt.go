// Package auth issues and verifies HS256 session tokens.
package auth

import (
	"errors"
	"time"

	"github.com/atxwallet/atxserver/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultValidity is the lifetime of a session token unless configured otherwise.
const DefaultValidity = 7 * 24 * time.Hour

// Claims carries the user id in the standard "sub" claim and the username
// alongside it.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a single process-wide secret.
type Issuer struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

func NewIssuer(secretKey []byte, validity time.Duration) *Issuer {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Issuer{secretKey: secretKey, validity: validity, now: time.Now}
}

// Issue returns a signed token for the user together with its expiry.
func (i *Issuer) Issue(userID, username string) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify parses tokenString and returns its claims. Expired tokens yield
// common.ErrTokenExpired; anything else that fails validation yields
// common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
