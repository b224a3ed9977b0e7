package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a session token and gives you back the claims if
// it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed     = errors.New("jwtx: malformed token")
	ErrAlgMismatch   = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig    = errors.New("jwtx: invalid signature")
	ErrMissingSecret = errors.New("jwtx: missing signing secret")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// HS256Verifier validates tokens signed with the shared symmetric secret.
type HS256Verifier struct {
	secret []byte
	issuer string
}

// NewVerifierHS256 creates a verifier for HS256 tokens. Issuer is enforced
// when non-empty.
func NewVerifierHS256(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: secret, issuer: issuer}
}

// Verify validates the token's signature and registered claims and returns
// the parsed Claims. Library errors are normalised to jwtx sentinels so
// callers can branch with errors.Is.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, ErrAlgMismatch
		default:
			return Claims{}, ErrMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// Decode extracts claims WITHOUT verifying the signature. Only use this
// where the token already passed through an authenticated path, e.g. when
// logout needs the exp claim to size the revocation entry.
func Decode(tokenStr string) (Claims, error) {
	parser := jwt.NewParser()

	var claims Claims
	if _, _, err := parser.ParseUnverified(tokenStr, &claims); err != nil {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}
