package domain

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Language is a judge-supported submission language.
type Language string

const (
	LanguageCPP        Language = "cpp"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
)

func (l Language) Valid() bool {
	return l == LanguageCPP || l == LanguageJava || l == LanguageJavaScript
}

// TestCase is a single input/expected-output pair. Explanation is only set
// on visible cases; hidden cases never leave the backend.
type TestCase struct {
	Input       string
	Output      string
	Explanation string
}

// CodeStub is the editor scaffold shown to users for one language.
type CodeStub struct {
	Language    Language
	InitialCode string
}

// Solution is an admin-provided reference implementation for one language.
// It must pass every test case before the problem is accepted into the set.
type Solution struct {
	Language     Language
	CompleteCode string
}

type Problem struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	Tags        []string

	VisibleTestCases  []TestCase
	HiddenTestCases   []TestCase
	StartCode         []CodeStub
	ReferenceSolution []Solution

	CreatedBy string // user id of the admin who created it
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StubFor returns the code stub for the given language, if any.
func (p Problem) StubFor(lang Language) (CodeStub, bool) {
	for _, s := range p.StartCode {
		if s.Language == lang {
			return s, true
		}
	}
	return CodeStub{}, false
}
