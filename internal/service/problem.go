package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/idx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// ProblemService manages the problem catalogue. Reference solutions are
// proven against the visible test cases on the judge before a problem is
// accepted, so the catalogue never contains an unsolvable problem.
type ProblemService struct {
	store  store.Store
	runner judge.Runner

	now func() time.Time
}

func NewProblemService(st store.Store, runner judge.Runner) *ProblemService {
	return &ProblemService{
		store:  st,
		runner: runner,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type ProblemInput struct {
	Title             string
	Description       string
	Difficulty        domain.Difficulty
	Tags              []string
	VisibleTestCases  []domain.TestCase
	HiddenTestCases   []domain.TestCase
	StartCode         []domain.CodeStub
	ReferenceSolution []domain.Solution
}

// Create validates the reference solutions and stores the problem.
func (s *ProblemService) Create(ctx context.Context, in ProblemInput, createdBy string) (domain.Problem, error) {
	if err := s.proveReferenceSolutions(ctx, in); err != nil {
		return domain.Problem{}, err
	}

	now := s.now()
	p := domain.Problem{
		ID:                idx.New().String(),
		Title:             in.Title,
		Description:       in.Description,
		Difficulty:        in.Difficulty,
		Tags:              in.Tags,
		VisibleTestCases:  in.VisibleTestCases,
		HiddenTestCases:   in.HiddenTestCases,
		StartCode:         in.StartCode,
		ReferenceSolution: in.ReferenceSolution,
		CreatedBy:         createdBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.Problems().CreateProblem(ctx, p); err != nil {
		return domain.Problem{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "problem created",
		slog.String("problem_id", p.ID),
		slog.String("difficulty", string(p.Difficulty)))
	return p, nil
}

// Update re-validates the reference solutions and replaces the problem,
// preserving authorship and creation time.
func (s *ProblemService) Update(ctx context.Context, id string, in ProblemInput) (domain.Problem, error) {
	existing, err := s.store.Problems().GetProblemByID(ctx, id)
	if err != nil {
		return domain.Problem{}, err
	}

	if err := s.proveReferenceSolutions(ctx, in); err != nil {
		return domain.Problem{}, err
	}

	p := domain.Problem{
		ID:                existing.ID,
		Title:             in.Title,
		Description:       in.Description,
		Difficulty:        in.Difficulty,
		Tags:              in.Tags,
		VisibleTestCases:  in.VisibleTestCases,
		HiddenTestCases:   in.HiddenTestCases,
		StartCode:         in.StartCode,
		ReferenceSolution: in.ReferenceSolution,
		CreatedBy:         existing.CreatedBy,
		CreatedAt:         existing.CreatedAt,
		UpdatedAt:         s.now(),
	}

	if err := s.store.Problems().UpdateProblem(ctx, p); err != nil {
		return domain.Problem{}, err
	}
	return p, nil
}

// Delete removes the problem and, when present, its editorial record.
func (s *ProblemService) Delete(ctx context.Context, id string) error {
	if err := s.store.Problems().DeleteProblem(ctx, id); err != nil {
		return err
	}
	if err := s.store.Videos().DeleteVideoByProblemID(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).ErrorContext(ctx, "failed to delete editorial for removed problem",
			slog.String("problem_id", id),
			slog.String("error", err.Error()))
	}
	return nil
}

// GetByID returns the problem and its editorial video, when one exists.
func (s *ProblemService) GetByID(ctx context.Context, id string) (domain.Problem, *domain.VideoSolution, error) {
	p, err := s.store.Problems().GetProblemByID(ctx, id)
	if err != nil {
		return domain.Problem{}, nil, err
	}

	video, err := s.store.Videos().GetVideoByProblemID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return p, nil, nil
		}
		return domain.Problem{}, nil, err
	}
	return p, &video, nil
}

// List returns the whole catalogue, oldest first.
func (s *ProblemService) List(ctx context.Context) ([]domain.Problem, error) {
	return s.store.Problems().ListProblems(ctx)
}

// ListSolvedByUser returns the problems the user has had accepted.
func (s *ProblemService) ListSolvedByUser(ctx context.Context, userID string) ([]domain.Problem, error) {
	u, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Problems().ListProblemsByIDs(ctx, u.ProblemsSolved)
}

// proveReferenceSolutions runs every reference solution against the visible
// test cases. All cases must come back accepted.
func (s *ProblemService) proveReferenceSolutions(ctx context.Context, in ProblemInput) error {
	for _, sol := range in.ReferenceSolution {
		results, err := s.runner.Run(ctx, sol.Language, sol.CompleteCode, in.VisibleTestCases)
		if err != nil {
			return fmt.Errorf("validate reference solution (%s): %w", sol.Language, err)
		}
		for i, res := range results {
			if !res.Accepted() {
				return fmt.Errorf("%w: language %s, test case %d: %s",
					ErrReferenceSolutionRejected, sol.Language, i+1, res.StatusDesc)
			}
		}
	}
	return nil
}
