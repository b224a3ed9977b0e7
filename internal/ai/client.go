// Package ai integrates a hosted LLM for the problem doubt assistant. The
// wire format follows the Gemini generateContent API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Message is one turn of a chat, role "user" or "model".
type Message struct {
	Role string
	Text string
}

// ChatModel answers a chat transcript under a system instruction.
// Satisfied by *Client.
type ChatModel interface {
	Chat(ctx context.Context, systemInstruction string, history []Message) (string, error)
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

var _ ChatModel = (*Client)(nil)

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Chat(ctx context.Context, systemInstruction string, history []Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("ai: empty chat history")
	}

	reqBody := generateRequest{
		Contents: make([]content, 0, len(history)),
	}
	if systemInstruction != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}
	for _, m := range history {
		reqBody.Contents = append(reqBody.Contents, content{
			Role:  m.Role,
			Parts: []part{{Text: m.Text}},
		})
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: call model: %w", err)
	}
	defer resp.Body.Close()

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("ai: model error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: unexpected status %d", resp.StatusCode)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("ai: model returned no candidates")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
