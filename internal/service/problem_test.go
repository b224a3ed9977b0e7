package service

import (
	"context"
	"testing"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestProblemService_CreateProvesReferenceSolution(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	runner := &fakeRunner{}
	svc := NewProblemService(st, runner)

	p, err := svc.Create(ctx, sampleProblemInput(), "admin-1")
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "admin-1", p.CreatedBy)
	require.Equal(t, 1, runner.calls)

	stored, err := st.Problems().GetProblemByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Two Sum", stored.Title)
}

func TestProblemService_CreateRejectsBrokenReference(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	runner := &fakeRunner{
		verdict: func(lang domain.Language, code string, cases []domain.TestCase) ([]judge.Result, error) {
			return []judge.Result{{StatusID: judge.StatusWrong, StatusDesc: "Wrong Answer"}}, nil
		},
	}
	svc := NewProblemService(st, runner)

	_, err := svc.Create(ctx, sampleProblemInput(), "admin-1")
	require.ErrorIs(t, err, ErrReferenceSolutionRejected)

	problems, err := st.Problems().ListProblems(ctx)
	require.NoError(t, err)
	require.Empty(t, problems)
}

func TestProblemService_Update(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	svc := NewProblemService(st, &fakeRunner{})

	p, err := svc.Create(ctx, sampleProblemInput(), "admin-1")
	require.NoError(t, err)

	in := sampleProblemInput()
	in.Title = "Two Sum II"
	in.Difficulty = domain.DifficultyMedium

	updated, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	require.Equal(t, p.ID, updated.ID)
	require.Equal(t, "Two Sum II", updated.Title)
	require.Equal(t, "admin-1", updated.CreatedBy)
	require.Equal(t, p.CreatedAt, updated.CreatedAt)

	t.Run("unknown problem", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", in)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestProblemService_DeleteRemovesEditorial(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	svc := NewProblemService(st, &fakeRunner{})

	p, err := svc.Create(ctx, sampleProblemInput(), "admin-1")
	require.NoError(t, err)

	require.NoError(t, st.Videos().UpsertVideo(ctx, domain.VideoSolution{
		ID: "v1", ProblemID: p.ID, ObjectKey: "editorials/x.mp4",
	}))

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = st.Problems().GetProblemByID(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Videos().GetVideoByProblemID(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProblemService_GetByID(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	svc := NewProblemService(st, &fakeRunner{})

	p, err := svc.Create(ctx, sampleProblemInput(), "admin-1")
	require.NoError(t, err)

	t.Run("without editorial", func(t *testing.T) {
		got, video, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, p.ID, got.ID)
		require.Nil(t, video)
	})

	t.Run("with editorial", func(t *testing.T) {
		require.NoError(t, st.Videos().UpsertVideo(ctx, domain.VideoSolution{
			ID: "v1", ProblemID: p.ID, SecureURL: "https://media.test/x.mp4",
		}))

		_, video, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, video)
		require.Equal(t, "https://media.test/x.mp4", video.SecureURL)
	})
}

func TestProblemService_ListSolvedByUser(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	svc := NewProblemService(st, &fakeRunner{})

	users := NewUserService(st, nil, newTokenService(t))
	sess, err := users.Register(ctx, annInput())
	require.NoError(t, err)

	p1, err := svc.Create(ctx, sampleProblemInput(), "admin-1")
	require.NoError(t, err)
	in2 := sampleProblemInput()
	in2.Title = "Three Sum"
	_, err = svc.Create(ctx, in2, "admin-1")
	require.NoError(t, err)

	solved, err := svc.ListSolvedByUser(ctx, sess.User.ID)
	require.NoError(t, err)
	require.Empty(t, solved)

	require.NoError(t, st.Users().AddSolvedProblem(ctx, sess.User.ID, p1.ID))

	solved, err = svc.ListSolvedByUser(ctx, sess.User.ID)
	require.NoError(t, err)
	require.Len(t, solved, 1)
	require.Equal(t, p1.ID, solved[0].ID)
}
