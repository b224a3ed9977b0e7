// Package storetest provides an in-memory Store for unit tests. It honours
// the same sentinel errors and uniqueness rules as the mongo driver.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/store"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]domain.User // keyed by id
	problems    map[string]domain.Problem
	submissions map[string]domain.Submission
	videos      map[string]domain.VideoSolution // keyed by problem id

	problemOrder    []string
	submissionOrder []string
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		problems:    make(map[string]domain.Problem),
		submissions: make(map[string]domain.Submission),
		videos:      make(map[string]domain.VideoSolution),
	}
}

func (s *Store) Users() store.Users             { return (*usersRepo)(s) }
func (s *Store) Problems() store.Problems       { return (*problemsRepo)(s) }
func (s *Store) Submissions() store.Submissions { return (*submissionsRepo)(s) }
func (s *Store) Videos() store.Videos           { return (*videosRepo)(s) }

func (s *Store) Ping(ctx context.Context) error  { return nil }
func (s *Store) Close(ctx context.Context) error { return nil }

type usersRepo Store

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return store.ErrAlreadyExists
	}
	for _, existing := range r.users {
		if existing.EmailID == u.EmailID {
			return store.ErrAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, emailID string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.EmailID == emailID {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (r *usersRepo) UpdateProfileImage(ctx context.Context, userID, image string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	u.ProfileImage = image
	r.users[userID] = u
	return u, nil
}

func (r *usersRepo) AddSolvedProblem(ctx context.Context, userID, problemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	for _, id := range u.ProblemsSolved {
		if id == problemID {
			return nil
		}
	}
	u.ProblemsSolved = append(u.ProblemsSolved, problemID)
	r.users[userID] = u
	return nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}

type problemsRepo Store

func (r *problemsRepo) CreateProblem(ctx context.Context, p domain.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.problems[p.ID]; ok {
		return store.ErrAlreadyExists
	}
	r.problems[p.ID] = p
	r.problemOrder = append(r.problemOrder, p.ID)
	return nil
}

func (r *problemsRepo) GetProblemByID(ctx context.Context, id string) (domain.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.problems[id]
	if !ok {
		return domain.Problem{}, store.ErrNotFound
	}
	return p, nil
}

func (r *problemsRepo) UpdateProblem(ctx context.Context, p domain.Problem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.problems[p.ID]; !ok {
		return store.ErrNotFound
	}
	r.problems[p.ID] = p
	return nil
}

func (r *problemsRepo) DeleteProblem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.problems[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.problems, id)
	for i, pid := range r.problemOrder {
		if pid == id {
			r.problemOrder = append(r.problemOrder[:i], r.problemOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *problemsRepo) ListProblems(ctx context.Context) ([]domain.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Problem, 0, len(r.problemOrder))
	for _, id := range r.problemOrder {
		out = append(out, r.problems[id])
	}
	return out, nil
}

func (r *problemsRepo) ListProblemsByIDs(ctx context.Context, ids []string) ([]domain.Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Problem
	for _, id := range r.problemOrder {
		if want[id] {
			out = append(out, r.problems[id])
		}
	}
	return out, nil
}

type submissionsRepo Store

func (r *submissionsRepo) CreateSubmission(ctx context.Context, s domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissions[s.ID]; ok {
		return store.ErrAlreadyExists
	}
	r.submissions[s.ID] = s
	r.submissionOrder = append(r.submissionOrder, s.ID)
	return nil
}

func (r *submissionsRepo) ListUserSubmissions(ctx context.Context, userID, problemID string) ([]domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Submission
	for _, id := range r.submissionOrder {
		s := r.submissions[id]
		if s.UserID == userID && s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *submissionsRepo) DeleteUserSubmissions(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.submissionOrder[:0]
	for _, id := range r.submissionOrder {
		if r.submissions[id].UserID == userID {
			delete(r.submissions, id)
			continue
		}
		kept = append(kept, id)
	}
	r.submissionOrder = kept
	return nil
}

type videosRepo Store

func (r *videosRepo) UpsertVideo(ctx context.Context, v domain.VideoSolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[v.ProblemID] = v
	return nil
}

func (r *videosRepo) GetVideoByProblemID(ctx context.Context, problemID string) (domain.VideoSolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[problemID]
	if !ok {
		return domain.VideoSolution{}, store.ErrNotFound
	}
	return v, nil
}

func (r *videosRepo) DeleteVideoByProblemID(ctx context.Context, problemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[problemID]; !ok {
		return store.ErrNotFound
	}
	delete(r.videos, problemID)
	return nil
}
