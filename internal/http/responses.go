package http

import (
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/service"
)

type userResponse struct {
	ID             string   `json:"id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName,omitempty"`
	EmailID        string   `json:"emailId"`
	Role           string   `json:"role"`
	ProfileImage   string   `json:"profileImage,omitempty"`
	ProblemsSolved []string `json:"problemsSolved,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		EmailID:        u.EmailID,
		Role:           string(u.Role),
		ProfileImage:   u.ProfileImage,
		ProblemsSolved: u.ProblemsSolved,
	}
}

type sessionResponse struct {
	User userResponse `json:"user"`
}

type problemSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags,omitempty"`
}

func toProblemSummary(p domain.Problem) problemSummary {
	return problemSummary{
		ID:         p.ID,
		Title:      p.Title,
		Difficulty: string(p.Difficulty),
		Tags:       p.Tags,
	}
}

type problemResponse struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Difficulty       string            `json:"difficulty"`
	Tags             []string          `json:"tags,omitempty"`
	VisibleTestCases []testCasePayload `json:"visibleTestCases"`
	StartCode        []codeStubPayload `json:"startCode"`
	Editorial        *editorialPayload `json:"editorial,omitempty"`
}

type editorialPayload struct {
	SecureURL string  `json:"secureUrl"`
	Duration  float64 `json:"duration,omitempty"`
}

// toProblemResponse deliberately omits the hidden test cases and reference
// solutions: those never leave the server.
func toProblemResponse(p domain.Problem, video *domain.VideoSolution) problemResponse {
	out := problemResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  string(p.Difficulty),
		Tags:        p.Tags,
	}
	for _, tc := range p.VisibleTestCases {
		out.VisibleTestCases = append(out.VisibleTestCases, testCasePayload(tc))
	}
	for _, sc := range p.StartCode {
		out.StartCode = append(out.StartCode, codeStubPayload{
			Language:    string(sc.Language),
			InitialCode: sc.InitialCode,
		})
	}
	if video != nil {
		out.Editorial = &editorialPayload{
			SecureURL: video.SecureURL,
			Duration:  video.Duration,
		}
	}
	return out
}

type caseResultPayload struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Stdout         string `json:"stdout"`
	Status         string `json:"status"`
	Passed         bool   `json:"passed"`
}

type runResponse struct {
	Success   bool                `json:"success"`
	Passed    int                 `json:"passed"`
	Total     int                 `json:"total"`
	TestCases []caseResultPayload `json:"testCases"`
}

func toRunResponse(res service.RunResult) runResponse {
	out := runResponse{
		Success: res.Success,
		Passed:  res.Passed,
		Total:   res.Total,
	}
	for _, tc := range res.TestCases {
		out.TestCases = append(out.TestCases, caseResultPayload(tc))
	}
	return out
}

type submissionResponse struct {
	ID              string  `json:"id"`
	ProblemID       string  `json:"problemId"`
	Language        string  `json:"language"`
	Status          string  `json:"status"`
	RuntimeSec      float64 `json:"runtimeSec"`
	MemoryKB        int     `json:"memoryKb"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
	TestCasesPassed int     `json:"testCasesPassed"`
	TestCasesTotal  int     `json:"testCasesTotal"`
	CreatedAt       string  `json:"createdAt"`
}

func toSubmissionResponse(s domain.Submission) submissionResponse {
	return submissionResponse{
		ID:              s.ID,
		ProblemID:       s.ProblemID,
		Language:        string(s.Language),
		Status:          string(s.Status),
		RuntimeSec:      s.RuntimeSec,
		MemoryKB:        s.MemoryKB,
		ErrorMessage:    s.ErrorMessage,
		TestCasesPassed: s.TestCasesPassed,
		TestCasesTotal:  s.TestCasesTotal,
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
}
