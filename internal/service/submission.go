package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/idx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// SubmissionService runs user code against problems. Run executes against
// the visible test cases without recording anything; Submit executes against
// the hidden cases, persists the verdict and accrues solved problems.
type SubmissionService struct {
	store  store.Store
	runner judge.Runner

	now func() time.Time
}

func NewSubmissionService(st store.Store, runner judge.Runner) *SubmissionService {
	return &SubmissionService{
		store:  st,
		runner: runner,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CaseResult is one visible test case outcome, shown to the user while
// iterating on a solution.
type CaseResult struct {
	Input          string
	ExpectedOutput string
	Stdout         string
	Status         string
	Passed         bool
}

type RunResult struct {
	Success   bool
	Passed    int
	Total     int
	TestCases []CaseResult
}

// Run executes code against the problem's visible test cases.
func (s *SubmissionService) Run(ctx context.Context, problemID string, lang domain.Language, code string) (RunResult, error) {
	p, err := s.store.Problems().GetProblemByID(ctx, problemID)
	if err != nil {
		return RunResult{}, err
	}

	results, err := s.runner.Run(ctx, lang, code, p.VisibleTestCases)
	if err != nil {
		return RunResult{}, fmt.Errorf("run code: %w", err)
	}

	out := RunResult{Total: len(results)}
	for i, res := range results {
		passed := res.Accepted()
		if passed {
			out.Passed++
		}
		out.TestCases = append(out.TestCases, CaseResult{
			Input:          p.VisibleTestCases[i].Input,
			ExpectedOutput: p.VisibleTestCases[i].Output,
			Stdout:         res.Stdout,
			Status:         res.StatusDesc,
			Passed:         passed,
		})
	}
	out.Success = out.Passed == out.Total
	return out, nil
}

// Submit executes code against the hidden test cases, stores the submission
// and, on acceptance, records the problem as solved for the user.
func (s *SubmissionService) Submit(ctx context.Context, userID, problemID string, lang domain.Language, code string) (domain.Submission, error) {
	p, err := s.store.Problems().GetProblemByID(ctx, problemID)
	if err != nil {
		return domain.Submission{}, err
	}

	results, err := s.runner.Run(ctx, lang, code, p.HiddenTestCases)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("judge submission: %w", err)
	}

	sub := domain.Submission{
		ID:             idx.New().String(),
		UserID:         userID,
		ProblemID:      problemID,
		Code:           code,
		Language:       lang,
		Status:         domain.SubmissionAccepted,
		TestCasesTotal: len(results),
		CreatedAt:      s.now(),
	}
	for _, res := range results {
		if res.TimeSec > sub.RuntimeSec {
			sub.RuntimeSec = res.TimeSec
		}
		if res.MemoryKB > sub.MemoryKB {
			sub.MemoryKB = res.MemoryKB
		}
		switch {
		case res.Accepted():
			sub.TestCasesPassed++
		case res.Errored():
			sub.Status = domain.SubmissionError
			if sub.ErrorMessage == "" {
				sub.ErrorMessage = res.Stderr
			}
		default:
			if sub.Status == domain.SubmissionAccepted {
				sub.Status = domain.SubmissionWrong
			}
		}
	}

	if err := s.store.Submissions().CreateSubmission(ctx, sub); err != nil {
		return domain.Submission{}, err
	}

	if sub.Status == domain.SubmissionAccepted {
		if err := s.store.Users().AddSolvedProblem(ctx, userID, problemID); err != nil {
			// The verdict is stored. The solved list self-heals on the next
			// accepted submission for the same problem.
			slogx.FromContext(ctx).ErrorContext(ctx, "failed to record solved problem",
				slog.String("user_id", userID),
				slog.String("problem_id", problemID),
				slog.String("error", err.Error()))
		}
	}

	slogx.FromContext(ctx).InfoContext(ctx, "submission judged",
		slog.String("submission_id", sub.ID),
		slog.String("status", string(sub.Status)),
		slog.Int("passed", sub.TestCasesPassed),
		slog.Int("total", sub.TestCasesTotal))

	return sub, nil
}

// ListForProblem returns the user's submission history for one problem,
// newest first.
func (s *SubmissionService) ListForProblem(ctx context.Context, userID, problemID string) ([]domain.Submission, error) {
	return s.store.Submissions().ListUserSubmissions(ctx, userID, problemID)
}
