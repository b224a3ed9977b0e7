package jwtx

import (
	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign session tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// HS256Signer signs tokens with a server-held symmetric secret. There is
// no kid header: the whole service shares one secret from configuration.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer. The only failure mode is
// misconfiguration (an empty secret), surfaced as ErrMissingSecret.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes claims and turns them into a signed compact JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check that we actually hold a secret.
func (s *HS256Signer) Validate() error {
	if len(s.secret) == 0 {
		return ErrMissingSecret
	}
	return nil
}
