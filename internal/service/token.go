package service

import (
	"fmt"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
)

// TokenService mints session tokens for authenticated users.
type TokenService struct {
	signer jwtx.Signer
	issuer string
	ttl    time.Duration
}

func NewTokenService(signer jwtx.Signer, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	return &TokenService{signer: signer, issuer: issuer, ttl: ttl}
}

// TTL is the session lifetime, shared with the cookie max-age.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a session token for the user. The token embeds id, email and
// role, so role changes only take effect on the next login.
func (s *TokenService) Issue(u domain.User, now time.Time) (string, time.Time, error) {
	claims := jwtx.NewSessionClaims(u.ID, u.EmailID, string(u.Role), s.issuer, s.ttl, now)

	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue session token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}
