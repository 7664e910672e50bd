// Package auth verifies the bearer tokens presented when a connection opens.
// Tokens are minted elsewhere; this package only checks them against the
// shared secret and maps claims to an identity.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkeye/Meet/internal/domain"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by an identity token. Subject is the stable user key;
// Name, when present, is the display name shown to other members.
type Claims struct {
	jwt.RegisteredClaims

	Name string `json:"name,omitempty"`
}

type Verifier interface {
	Verify(token string) (*domain.User, error)
}

// TokenVerifier checks HS256 signatures against a server-held secret.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify returns the identity a token vouches for. Expiry is mandatory:
// a token without exp is rejected, not treated as eternal.
func (v *TokenVerifier) Verify(token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	user, err := domain.NewUser(domain.UserID(claims.Subject), claims.Name)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// BearerFromRequest extracts the credential from the Authorization header,
// falling back to the token query parameter (browser WebSocket clients
// cannot set headers on the upgrade request).
func BearerFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok && token != "" {
			return token, nil
		}
		return "", ErrInvalidToken
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", ErrMissingToken
}
