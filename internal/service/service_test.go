package service

import (
	"context"
	"testing"
	"time"

	"github.com/codemasterhq/codemaster/internal/ai"
	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/store/storetest"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// fakeRunner returns a canned verdict per test case.
type fakeRunner struct {
	verdict func(lang domain.Language, code string, cases []domain.TestCase) ([]judge.Result, error)
	calls   int
}

func (f *fakeRunner) Run(ctx context.Context, lang domain.Language, code string, cases []domain.TestCase) ([]judge.Result, error) {
	f.calls++
	if f.verdict != nil {
		return f.verdict(lang, code, cases)
	}
	return allAccepted(cases), nil
}

func allAccepted(cases []domain.TestCase) []judge.Result {
	out := make([]judge.Result, 0, len(cases))
	for range cases {
		out = append(out, judge.Result{StatusID: judge.StatusAccepted, StatusDesc: "Accepted", TimeSec: 0.01, MemoryKB: 1024})
	}
	return out
}

type fakeMedia struct {
	deleted []string
}

func (f *fakeMedia) PresignUpload(ctx context.Context, key string) (string, error) {
	return "https://media.test/upload/" + key, nil
}

func (f *fakeMedia) ObjectURL(key string) string {
	return "https://media.test/" + key
}

func (f *fakeMedia) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeModel struct {
	lastInstruction string
	lastHistory     int
	reply           string
}

func (f *fakeModel) Chat(ctx context.Context, instruction string, history []ai.Message) (string, error) {
	f.lastInstruction = instruction
	f.lastHistory = len(history)
	return f.reply, nil
}

func newTokenService(t *testing.T) *TokenService {
	t.Helper()
	signer, err := jwtx.NewSignerHS256([]byte("test-secret-0123456789"))
	require.NoError(t, err)
	return NewTokenService(signer, "codemaster", time.Hour)
}

func sampleProblemInput() ProblemInput {
	return ProblemInput{
		Title:       "Two Sum",
		Description: "Find indices of two numbers adding to target.",
		Difficulty:  domain.DifficultyEasy,
		Tags:        []string{"array", "hash-map"},
		VisibleTestCases: []domain.TestCase{
			{Input: "2 7 11 15\n9", Output: "0 1", Explanation: "2+7=9"},
		},
		HiddenTestCases: []domain.TestCase{
			{Input: "3 3\n6", Output: "0 1"},
			{Input: "1 2 3\n5", Output: "1 2"},
		},
		StartCode: []domain.CodeStub{
			{Language: domain.LanguageCPP, InitialCode: "int main() {}"},
		},
		ReferenceSolution: []domain.Solution{
			{Language: domain.LanguageCPP, CompleteCode: "int main() { /* full */ }"},
		},
	}
}

func seedProblem(t *testing.T, st *storetest.Store) domain.Problem {
	t.Helper()
	svc := NewProblemService(st, &fakeRunner{})
	p, err := svc.Create(context.Background(), sampleProblemInput(), "admin-1")
	require.NoError(t, err)
	return p
}
