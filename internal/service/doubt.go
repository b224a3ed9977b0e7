package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/codemasterhq/codemaster/internal/ai"
	"github.com/codemasterhq/codemaster/internal/store"
)

// DoubtService answers questions about a specific problem. The assistant is
// scoped hard to the problem at hand: the system instruction embeds the
// problem statement and forbids off-topic answers.
type DoubtService struct {
	store store.Store
	model ai.ChatModel
}

func NewDoubtService(st store.Store, model ai.ChatModel) *DoubtService {
	return &DoubtService{store: st, model: model}
}

// Answer resolves the problem server-side and asks the model. The chat
// history comes from the client, newest message last.
func (s *DoubtService) Answer(ctx context.Context, problemID string, history []ai.Message) (string, error) {
	p, err := s.store.Problems().GetProblemByID(ctx, problemID)
	if err != nil {
		return "", err
	}

	var cases strings.Builder
	for i, tc := range p.VisibleTestCases {
		fmt.Fprintf(&cases, "Example %d:\nInput: %s\nOutput: %s\n", i+1, tc.Input, tc.Output)
		if tc.Explanation != "" {
			fmt.Fprintf(&cases, "Explanation: %s\n", tc.Explanation)
		}
	}

	instruction := fmt.Sprintf(`You are a tutor helping a user with this coding problem.

[PROBLEM TITLE]: %s
[PROBLEM DESCRIPTION]: %s
[EXAMPLES]: %s

Only answer questions about this problem: hints, explaining test cases,
reviewing the user's approach, discussing complexity, or showing the optimal
solution when asked directly. Politely decline anything unrelated.`,
		p.Title, p.Description, cases.String())

	return s.model.Chat(ctx, instruction, history)
}
