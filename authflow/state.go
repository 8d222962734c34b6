package authflow

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/reposcribe/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const stateIssuer = "reposcribe"

// StateClaims are carried inside the signed state value.
type StateClaims struct {
	RedirectURI string `json:"rdr"`
	ReturnURL   string `json:"ret,omitempty"`
	jwtlib.RegisteredClaims
}

// Signer issues and verifies HS256 state values.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{secret: secret, ttl: ttl}
}

// Issue creates a signed state bound to redirectURI. The jti doubles as the
// pending login id.
func (s *Signer) Issue(redirectURI, returnURL string) (string, *StateClaims, error) {
	now := NowTimeFunc()
	claims := &StateClaims{
		RedirectURI: redirectURI,
		ReturnURL:   returnURL,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    stateIssuer,
			ID:        uuid.New().String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, errors.Wrapf(err, "[Signer Issue] failed to sign state")
	}
	return signed, claims, nil
}

// Verify checks signature, issuer and expiry. Any failure wraps ErrInvalidState.
func (s *Signer) Verify(state string) (*StateClaims, error) {
	if state == "" {
		return nil, errors.Wrapf(errors.ErrInvalidState, "[Signer Verify] empty state")
	}

	claims := &StateClaims{}
	_, err := jwtlib.ParseWithClaims(state, claims,
		func(*jwtlib.Token) (any, error) { return s.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(stateIssuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("[Signer Verify] %w: %w", errors.ErrInvalidState, err)
	}
	if claims.ID == "" {
		return nil, errors.Wrapf(errors.ErrInvalidState, "[Signer Verify] missing jti")
	}
	return claims, nil
}
