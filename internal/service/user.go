package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/cryptox"
	"github.com/codemasterhq/codemaster/pkg/idx"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// UserService owns the account lifecycle: registration, login, logout,
// profile and deletion.
type UserService struct {
	store    store.Store
	registry revocation.Registry
	tokens   *TokenService

	now func() time.Time
}

func NewUserService(st store.Store, reg revocation.Registry, tokens *TokenService) *UserService {
	return &UserService{
		store:    st,
		registry: reg,
		tokens:   tokens,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	EmailID   string
	Password  string

	// Role is only honoured by RegisterAdmin. Register always creates a
	// regular user.
	Role domain.Role
}

// Session is a freshly issued login session.
type Session struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a regular account and logs it straight in.
// Returns store.ErrAlreadyExists when the email is taken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	return s.register(ctx, in, domain.RoleUser)
}

// RegisterAdmin creates an account through the admin endpoint. The supplied
// role is persisted as-is; an empty role falls back to admin.
func (s *UserService) RegisterAdmin(ctx context.Context, in RegisterInput) (Session, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleAdmin
	}
	return s.register(ctx, in, role)
}

func (s *UserService) register(ctx context.Context, in RegisterInput, role domain.Role) (Session, error) {
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		ID:           idx.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		EmailID:      in.EmailID,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Users().CreateUser(ctx, u); err != nil {
		return Session{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
		slog.String("role", string(role)))

	return s.startSession(u)
}

// Login verifies credentials and issues a session. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, emailID, password string) (Session, error) {
	u, err := s.store.Users().GetUserByEmail(ctx, emailID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	slogx.FromContext(ctx).InfoContext(ctx, "user logged in",
		slog.String("user_id", u.ID))

	return s.startSession(u)
}

func (s *UserService) startSession(u domain.User) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(u, s.now())
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the presented token until its natural expiry. A registry
// failure is surfaced as ErrRegistryUnavailable because the session would
// otherwise stay usable.
func (s *UserService) Logout(ctx context.Context, token string) error {
	expiresAt := s.now().Add(s.tokens.TTL())
	if claims, err := jwtx.Decode(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.registry.Block(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "session revoked")
	return nil
}

// GetUser returns the account record.
func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.store.Users().GetUserByID(ctx, userID)
}

// UpdateProfileImage stores the new image reference and returns the updated
// account.
func (s *UserService) UpdateProfileImage(ctx context.Context, userID, image string) (domain.User, error) {
	return s.store.Users().UpdateProfileImage(ctx, userID, image)
}

// DeleteAccount removes the account and its submissions. Existing session
// tokens die on their own: the request authenticator rejects any token whose
// account no longer exists.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}

	if err := s.store.Submissions().DeleteUserSubmissions(ctx, userID); err != nil {
		// The account is already gone, so the authenticator locks the user
		// out either way. Orphaned submissions are logged, not fatal.
		slogx.FromContext(ctx).ErrorContext(ctx, "failed to delete submissions for removed account",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	slogx.FromContext(ctx).InfoContext(ctx, "account deleted",
		slog.String("user_id", userID))
	return nil
}
