// Package revocation tracks logged-out session tokens until they expire on
// their own. A token present in the registry must be refused even though its
// signature and expiry still verify.
package revocation

import (
	"context"
	"time"
)

// Registry is the session denylist.
type Registry interface {
	// Block records the token as revoked until expiresAt. After that point
	// the entry may be dropped, since expiry alone rejects the token.
	Block(ctx context.Context, token string, expiresAt time.Time) error

	// IsBlocked reports whether the token was revoked. Implementations must
	// fail open: if the backend cannot be reached the token is treated as
	// not blocked, so a registry outage degrades revocation, not login.
	IsBlocked(ctx context.Context, token string) bool

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
