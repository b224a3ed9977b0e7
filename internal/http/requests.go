package http

import (
	"errors"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/codemasterhq/codemaster/internal/ai"
	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/service"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	EmailID   string `json:"emailId"`
	Password  string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.LastName, validation.Length(0, 64)),
		validation.Field(&r.EmailID, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(strongPassword)),
	)
}

func (r registerRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		EmailID:   r.EmailID,
		Password:  r.Password,
	}
}

// adminRegisterRequest additionally carries the role to persist. The admin
// endpoint stores whatever role the caller supplies; absent means admin.
type adminRegisterRequest struct {
	registerRequest
	Role string `json:"role"`
}

func (r adminRegisterRequest) Validate() error {
	if err := r.registerRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.By(validRole)),
	)
}

func (r adminRegisterRequest) toInput() service.RegisterInput {
	in := r.registerRequest.toInput()
	in.Role = domain.Role(r.Role)
	return in
}

func validRole(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !domain.Role(s).Valid() {
		return errors.New("must be user or admin")
	}
	return nil
}

type loginRequest struct {
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EmailID, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// strongPassword requires at least 8 characters mixing upper case, lower
// case and digits.
func strongPassword(value any) error {
	s, _ := value.(string)
	if len(s) < 8 {
		return errors.New("must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("must mix upper case, lower case and digits")
	}
	return nil
}

type testCasePayload struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type codeStubPayload struct {
	Language    string `json:"language"`
	InitialCode string `json:"initialCode"`
}

type solutionPayload struct {
	Language     string `json:"language"`
	CompleteCode string `json:"completeCode"`
}

type problemRequest struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Difficulty        string            `json:"difficulty"`
	Tags              []string          `json:"tags"`
	VisibleTestCases  []testCasePayload `json:"visibleTestCases"`
	HiddenTestCases   []testCasePayload `json:"hiddenTestCases"`
	StartCode         []codeStubPayload `json:"startCode"`
	ReferenceSolution []solutionPayload `json:"referenceSolution"`
}

func (r problemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Difficulty, validation.Required, validation.By(validDifficulty)),
		validation.Field(&r.VisibleTestCases, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.HiddenTestCases, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.StartCode, validation.Required, validation.By(validStubs)),
		validation.Field(&r.ReferenceSolution, validation.Required, validation.By(validSolutions)),
	)
}

func validDifficulty(value any) error {
	s, _ := value.(string)
	if !domain.Difficulty(s).Valid() {
		return errors.New("must be easy, medium or hard")
	}
	return nil
}

func validStubs(value any) error {
	stubs, _ := value.([]codeStubPayload)
	for _, s := range stubs {
		if !domain.Language(s.Language).Valid() {
			return errors.New("unsupported language: " + s.Language)
		}
	}
	return nil
}

func validSolutions(value any) error {
	sols, _ := value.([]solutionPayload)
	for _, s := range sols {
		if !domain.Language(s.Language).Valid() {
			return errors.New("unsupported language: " + s.Language)
		}
		if s.CompleteCode == "" {
			return errors.New("completeCode is required")
		}
	}
	return nil
}

func (r problemRequest) toInput() service.ProblemInput {
	in := service.ProblemInput{
		Title:       r.Title,
		Description: r.Description,
		Difficulty:  domain.Difficulty(r.Difficulty),
		Tags:        r.Tags,
	}
	for _, tc := range r.VisibleTestCases {
		in.VisibleTestCases = append(in.VisibleTestCases, domain.TestCase(tc))
	}
	for _, tc := range r.HiddenTestCases {
		in.HiddenTestCases = append(in.HiddenTestCases, domain.TestCase(tc))
	}
	for _, sc := range r.StartCode {
		in.StartCode = append(in.StartCode, domain.CodeStub{
			Language:    domain.Language(sc.Language),
			InitialCode: sc.InitialCode,
		})
	}
	for _, rs := range r.ReferenceSolution {
		in.ReferenceSolution = append(in.ReferenceSolution, domain.Solution{
			Language:     domain.Language(rs.Language),
			CompleteCode: rs.CompleteCode,
		})
	}
	return in
}

type submitRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (r submitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
		validation.Field(&r.Language, validation.Required, validation.By(validLanguage)),
	)
}

func validLanguage(value any) error {
	s, _ := value.(string)
	if !domain.Language(s).Valid() {
		return errors.New("must be cpp, java or javascript")
	}
	return nil
}

type chatMessagePayload struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type chatRequest struct {
	ProblemID string               `json:"problemId"`
	Messages  []chatMessagePayload `json:"messages"`
}

func (r chatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProblemID, validation.Required),
		validation.Field(&r.Messages, validation.Required, validation.Length(1, 0)),
	)
}

func (r chatRequest) history() []ai.Message {
	out := make([]ai.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		out = append(out, ai.Message{Role: role, Text: m.Text})
	}
	return out
}

type saveVideoRequest struct {
	ProblemID string  `json:"problemId"`
	ObjectKey string  `json:"objectKey"`
	Duration  float64 `json:"duration"`
}

func (r saveVideoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProblemID, validation.Required),
		validation.Field(&r.ObjectKey, validation.Required),
		validation.Field(&r.Duration, validation.Min(0.0)),
	)
}

// profileImageRequest carries an opaque image reference, either an external
// URL or an inline base64 blob. The content is not inspected server-side.
type profileImageRequest struct {
	Image string `json:"image"`
}

func (r profileImageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Image, validation.Required),
	)
}
