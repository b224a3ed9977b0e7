package domain

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionWrong    SubmissionStatus = "wrong"
	SubmissionError    SubmissionStatus = "error"
)

// Submission is a persisted judged attempt against a problem's hidden
// test cases. Run-only attempts (visible cases) are never persisted.
type Submission struct {
	ID        string
	UserID    string
	ProblemID string
	Code      string
	Language  Language

	Status          SubmissionStatus
	RuntimeSec      float64
	MemoryKB        int
	ErrorMessage    string
	TestCasesPassed int
	TestCasesTotal  int

	CreatedAt time.Time
}
