// Package judge talks to a Judge0-compatible code execution backend. Test
// cases go out as a batch, then the client polls the returned tokens until
// every case leaves the queue.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codemasterhq/codemaster/internal/domain"
)

// Language ids assigned by the execution backend.
const (
	langIDCpp        = 54
	langIDJava       = 62
	langIDJavaScript = 63
)

// Verdict ids from the backend's status table.
const (
	statusInQueue    = 1
	statusProcessing = 2
	StatusAccepted   = 3
	StatusWrong      = 4
	// Anything above StatusWrong is a runtime, compile or system error.
)

// Result is the outcome of one test case.
type Result struct {
	StatusID   int
	StatusDesc string
	Stdout     string
	Stderr     string
	TimeSec    float64
	MemoryKB   int
}

func (r Result) Accepted() bool { return r.StatusID == StatusAccepted }

// Errored reports a verdict that is neither accepted nor a plain wrong
// answer (compile error, runtime error, time limit and so on).
func (r Result) Errored() bool { return r.StatusID > StatusWrong }

// Runner executes code against test cases. Satisfied by *Client.
type Runner interface {
	Run(ctx context.Context, lang domain.Language, code string, cases []domain.TestCase) ([]Result, error)
}

type Client struct {
	baseURL      string
	apiKey       string
	httpc        *http.Client
	pollInterval time.Duration
}

var _ Runner = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		httpc:        &http.Client{Timeout: 30 * time.Second},
		pollInterval: time.Second,
	}
}

// LanguageID maps a platform language to the backend's id.
func LanguageID(lang domain.Language) (int, error) {
	switch lang {
	case domain.LanguageCPP:
		return langIDCpp, nil
	case domain.LanguageJava:
		return langIDJava, nil
	case domain.LanguageJavaScript:
		return langIDJavaScript, nil
	default:
		return 0, fmt.Errorf("judge: unsupported language %q", lang)
	}
}

type submissionRequest struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type submissionResult struct {
	Token          string `json:"token"`
	Stdout         string `json:"stdout"`
	Stderr         string `json:"stderr"`
	CompileOutput  string `json:"compile_output"`
	Time           string `json:"time"`
	Memory         int    `json:"memory"`
	ExpectedOutput string `json:"expected_output"`
	Status         struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

type batchResultResponse struct {
	Submissions []submissionResult `json:"submissions"`
}

// Run submits code against every test case and blocks until all verdicts
// are final. Results come back in test case order.
func (c *Client) Run(ctx context.Context, lang domain.Language, code string, cases []domain.TestCase) ([]Result, error) {
	if len(cases) == 0 {
		return nil, nil
	}

	langID, err := LanguageID(lang)
	if err != nil {
		return nil, err
	}

	subs := make([]submissionRequest, 0, len(cases))
	for _, tc := range cases {
		subs = append(subs, submissionRequest{
			SourceCode:     code,
			LanguageID:     langID,
			Stdin:          tc.Input,
			ExpectedOutput: tc.Output,
		})
	}

	tokens, err := c.createBatch(ctx, subs)
	if err != nil {
		return nil, err
	}

	return c.awaitBatch(ctx, tokens)
}

func (c *Client) createBatch(ctx context.Context, subs []submissionRequest) ([]string, error) {
	body, err := json.Marshal(map[string]any{"submissions": subs})
	if err != nil {
		return nil, fmt.Errorf("judge: encode batch: %w", err)
	}

	u := c.baseURL + "/submissions/batch?base64_encoded=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("judge: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge: submit batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge: submit batch: unexpected status %d", resp.StatusCode)
	}

	var created []tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("judge: decode batch response: %w", err)
	}

	tokens := make([]string, 0, len(created))
	for _, tr := range created {
		if tr.Token == "" {
			return nil, fmt.Errorf("judge: backend returned empty token")
		}
		tokens = append(tokens, tr.Token)
	}
	return tokens, nil
}

func (c *Client) awaitBatch(ctx context.Context, tokens []string) ([]Result, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		results, done, err := c.fetchBatch(ctx, tokens)
		if err != nil {
			return nil, err
		}
		if done {
			return results, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchBatch(ctx context.Context, tokens []string) ([]Result, bool, error) {
	q := url.Values{}
	q.Set("tokens", strings.Join(tokens, ","))
	q.Set("base64_encoded", "false")

	u := c.baseURL + "/submissions/batch?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("judge: build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("judge: poll batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("judge: poll batch: unexpected status %d", resp.StatusCode)
	}

	var batch batchResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, false, fmt.Errorf("judge: decode poll response: %w", err)
	}
	if len(batch.Submissions) != len(tokens) {
		return nil, false, fmt.Errorf("judge: expected %d results, got %d", len(tokens), len(batch.Submissions))
	}

	results := make([]Result, 0, len(batch.Submissions))
	for _, sr := range batch.Submissions {
		if sr.Status.ID == statusInQueue || sr.Status.ID == statusProcessing {
			return nil, false, nil
		}

		timeSec, _ := strconv.ParseFloat(sr.Time, 64)
		stderr := sr.Stderr
		if stderr == "" {
			stderr = sr.CompileOutput
		}
		results = append(results, Result{
			StatusID:   sr.Status.ID,
			StatusDesc: sr.Status.Description,
			Stdout:     sr.Stdout,
			Stderr:     stderr,
			TimeSec:    timeSec,
			MemoryKB:   sr.Memory,
		})
	}
	return results, true, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-Auth-Token", c.apiKey)
	}
}
