package mongo

import (
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
)

// Document types mirror the domain types with bson tags so the domain
// package stays free of driver concerns.

type userDoc struct {
	ID             string    `bson:"_id"`
	FirstName      string    `bson:"first_name"`
	LastName       string    `bson:"last_name,omitempty"`
	EmailID        string    `bson:"email_id"`
	PasswordHash   string    `bson:"password_hash"`
	Role           string    `bson:"role"`
	ProfileImage   string    `bson:"profile_image,omitempty"`
	ProblemsSolved []string  `bson:"problems_solved,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		EmailID:        u.EmailID,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		ProfileImage:   u.ProfileImage,
		ProblemsSolved: u.ProblemsSolved,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func mapUser(d userDoc) domain.User {
	return domain.User{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		EmailID:        d.EmailID,
		PasswordHash:   d.PasswordHash,
		Role:           domain.Role(d.Role),
		ProfileImage:   d.ProfileImage,
		ProblemsSolved: d.ProblemsSolved,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type testCaseDoc struct {
	Input       string `bson:"input"`
	Output      string `bson:"output"`
	Explanation string `bson:"explanation,omitempty"`
}

type codeStubDoc struct {
	Language    string `bson:"language"`
	InitialCode string `bson:"initial_code"`
}

type solutionDoc struct {
	Language     string `bson:"language"`
	CompleteCode string `bson:"complete_code"`
}

type problemDoc struct {
	ID                string        `bson:"_id"`
	Title             string        `bson:"title"`
	Description       string        `bson:"description"`
	Difficulty        string        `bson:"difficulty"`
	Tags              []string      `bson:"tags,omitempty"`
	VisibleTestCases  []testCaseDoc `bson:"visible_test_cases"`
	HiddenTestCases   []testCaseDoc `bson:"hidden_test_cases"`
	StartCode         []codeStubDoc `bson:"start_code"`
	ReferenceSolution []solutionDoc `bson:"reference_solution"`
	CreatedBy         string        `bson:"created_by"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

func toProblemDoc(p domain.Problem) problemDoc {
	d := problemDoc{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  string(p.Difficulty),
		Tags:        p.Tags,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, tc := range p.VisibleTestCases {
		d.VisibleTestCases = append(d.VisibleTestCases, testCaseDoc(tc))
	}
	for _, tc := range p.HiddenTestCases {
		d.HiddenTestCases = append(d.HiddenTestCases, testCaseDoc(tc))
	}
	for _, sc := range p.StartCode {
		d.StartCode = append(d.StartCode, codeStubDoc{
			Language:    string(sc.Language),
			InitialCode: sc.InitialCode,
		})
	}
	for _, rs := range p.ReferenceSolution {
		d.ReferenceSolution = append(d.ReferenceSolution, solutionDoc{
			Language:     string(rs.Language),
			CompleteCode: rs.CompleteCode,
		})
	}
	return d
}

func mapProblem(d problemDoc) domain.Problem {
	p := domain.Problem{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  domain.Difficulty(d.Difficulty),
		Tags:        d.Tags,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, tc := range d.VisibleTestCases {
		p.VisibleTestCases = append(p.VisibleTestCases, domain.TestCase(tc))
	}
	for _, tc := range d.HiddenTestCases {
		p.HiddenTestCases = append(p.HiddenTestCases, domain.TestCase(tc))
	}
	for _, sc := range d.StartCode {
		p.StartCode = append(p.StartCode, domain.CodeStub{
			Language:    domain.Language(sc.Language),
			InitialCode: sc.InitialCode,
		})
	}
	for _, rs := range d.ReferenceSolution {
		p.ReferenceSolution = append(p.ReferenceSolution, domain.Solution{
			Language:     domain.Language(rs.Language),
			CompleteCode: rs.CompleteCode,
		})
	}
	return p
}

type submissionDoc struct {
	ID              string    `bson:"_id"`
	UserID          string    `bson:"user_id"`
	ProblemID       string    `bson:"problem_id"`
	Code            string    `bson:"code"`
	Language        string    `bson:"language"`
	Status          string    `bson:"status"`
	RuntimeSec      float64   `bson:"runtime_sec,omitempty"`
	MemoryKB        int       `bson:"memory_kb,omitempty"`
	ErrorMessage    string    `bson:"error_message,omitempty"`
	TestCasesPassed int       `bson:"test_cases_passed"`
	TestCasesTotal  int       `bson:"test_cases_total"`
	CreatedAt       time.Time `bson:"created_at"`
}

func toSubmissionDoc(s domain.Submission) submissionDoc {
	return submissionDoc{
		ID:              s.ID,
		UserID:          s.UserID,
		ProblemID:       s.ProblemID,
		Code:            s.Code,
		Language:        string(s.Language),
		Status:          string(s.Status),
		RuntimeSec:      s.RuntimeSec,
		MemoryKB:        s.MemoryKB,
		ErrorMessage:    s.ErrorMessage,
		TestCasesPassed: s.TestCasesPassed,
		TestCasesTotal:  s.TestCasesTotal,
		CreatedAt:       s.CreatedAt,
	}
}

func mapSubmission(d submissionDoc) domain.Submission {
	return domain.Submission{
		ID:              d.ID,
		UserID:          d.UserID,
		ProblemID:       d.ProblemID,
		Code:            d.Code,
		Language:        domain.Language(d.Language),
		Status:          domain.SubmissionStatus(d.Status),
		RuntimeSec:      d.RuntimeSec,
		MemoryKB:        d.MemoryKB,
		ErrorMessage:    d.ErrorMessage,
		TestCasesPassed: d.TestCasesPassed,
		TestCasesTotal:  d.TestCasesTotal,
		CreatedAt:       d.CreatedAt,
	}
}

type videoDoc struct {
	ID         string    `bson:"_id"`
	ProblemID  string    `bson:"problem_id"`
	ObjectKey  string    `bson:"object_key"`
	SecureURL  string    `bson:"secure_url"`
	Duration   float64   `bson:"duration,omitempty"`
	UploadedBy string    `bson:"uploaded_by"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toVideoDoc(v domain.VideoSolution) videoDoc {
	return videoDoc(v)
}

func mapVideo(d videoDoc) domain.VideoSolution {
	return domain.VideoSolution(d)
}
