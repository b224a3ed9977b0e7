package store

import (
	"context"
	"errors"

	"github.com/codemasterhq/codemaster/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mongo today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
//
// There is deliberately no transaction surface: the system's consistency
// contract between accounts, submissions and sessions is eventual (the
// request authenticator re-checks account existence on every request), so
// nothing here needs multi-document atomicity.
type Store interface {
	Users() Users
	Problems() Problems
	Submissions() Submissions
	Videos() Videos

	// Ping verifies the backing connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists if the email is already registered.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, emailID string) (domain.User, error)

	// UpdateProfileImage mutates only the image field and returns the
	// updated record.
	UpdateProfileImage(ctx context.Context, userID, image string) (domain.User, error)

	// AddSolvedProblem records an accepted problem id, idempotently.
	AddSolvedProblem(ctx context.Context, userID, problemID string) error

	// DeleteUser removes the record. Returns ErrNotFound if absent.
	DeleteUser(ctx context.Context, userID string) error
}

type Problems interface {
	CreateProblem(ctx context.Context, p domain.Problem) error

	GetProblemByID(ctx context.Context, id string) (domain.Problem, error)

	// UpdateProblem replaces the stored problem. Returns ErrNotFound if absent.
	UpdateProblem(ctx context.Context, p domain.Problem) error

	DeleteProblem(ctx context.Context, id string) error

	// ListProblems returns all problems ordered by creation (oldest first).
	ListProblems(ctx context.Context) ([]domain.Problem, error)

	// ListProblemsByIDs returns the problems matching ids; missing ids are
	// skipped, not errors.
	ListProblemsByIDs(ctx context.Context, ids []string) ([]domain.Problem, error)
}

type Submissions interface {
	CreateSubmission(ctx context.Context, s domain.Submission) error

	// ListUserSubmissions returns a user's submissions for one problem,
	// newest first.
	ListUserSubmissions(ctx context.Context, userID, problemID string) ([]domain.Submission, error)

	// DeleteUserSubmissions removes every submission by the user. Used by
	// account deletion; deleting zero records is not an error.
	DeleteUserSubmissions(ctx context.Context, userID string) error
}

type Videos interface {
	// UpsertVideo creates or replaces the editorial for a problem.
	UpsertVideo(ctx context.Context, v domain.VideoSolution) error

	GetVideoByProblemID(ctx context.Context, problemID string) (domain.VideoSolution, error)

	DeleteVideoByProblemID(ctx context.Context, problemID string) error
}
