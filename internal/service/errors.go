package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the API cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrRegistryUnavailable means a logout could not be recorded. The
	// session is still live, so the caller must NOT report success.
	ErrRegistryUnavailable = errors.New("service: revocation registry unavailable")

	// ErrReferenceSolutionRejected means a problem's reference solution
	// failed its own visible test cases on the judge.
	ErrReferenceSolutionRejected = errors.New("service: reference solution rejected by judge")
)
