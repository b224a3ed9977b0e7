package codemaster_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	httpapi "github.com/codemasterhq/codemaster/internal/http"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/service"
	mongodriver "github.com/codemasterhq/codemaster/internal/store/drivers/mongo"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
)

/*
 * End-to-end tests for the platform backend. Real MongoDB and Redis run in
 * containers; the judge is a local fake that accepts everything; the HTTP
 * stack is the production router served in-process.
 */

const (
	e2eSecret = "e2e-secret-0123456789abcdef"
	e2eIssuer = "codemaster"
)

type env struct {
	baseURL string
	client  *http.Client
}

// startMongo starts a MongoDB container and returns its URI.
func startMongo(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate mongo container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

// startRedis starts a Redis container and returns its URL.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s", host, port.Port())
}

// startFakeJudge serves a Judge0-style backend that accepts every
// submission on the first poll.
func startFakeJudge(t *testing.T) string {
	t.Helper()

	type submissionReq struct {
		SourceCode string `json:"source_code"`
	}
	var pending int

	mux := http.NewServeMux()
	mux.HandleFunc("POST /submissions/batch", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Submissions []submissionReq `json:"submissions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		pending = len(body.Submissions)

		tokens := make([]map[string]string, 0, pending)
		for i := 0; i < pending; i++ {
			tokens = append(tokens, map[string]string{"token": fmt.Sprintf("tok-%d", i)})
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(tokens)
	})
	mux.HandleFunc("GET /submissions/batch", func(w http.ResponseWriter, r *http.Request) {
		subs := make([]map[string]any, 0, pending)
		for i := 0; i < pending; i++ {
			subs = append(subs, map[string]any{
				"token":  fmt.Sprintf("tok-%d", i),
				"stdout": "ok",
				"time":   "0.01",
				"memory": 512,
				"status": map[string]any{"id": 3, "description": "Accepted"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"submissions": subs})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// setupEnv brings up the full stack against real backing services.
func setupEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	st, err := mongodriver.NewStore(ctx, startMongo(t), "codemaster_e2e")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry, err := revocation.NewRedisRegistry(startRedis(t), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Close() })

	signer, err := jwtx.NewSignerHS256([]byte(e2eSecret))
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256([]byte(e2eSecret), e2eIssuer)
	tokens := service.NewTokenService(signer, e2eIssuer, time.Hour)

	runner := judge.NewClient(startFakeJudge(t), "")

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Verifier:       verifier,
		Registry:       registry,
		Store:          st,
		BuildVersion:   "e2e",
		AllowedOrigins: []string{"http://localhost:5173"},
		CookieMaxAge:   3600,
		Logger:         logger,
	})
	router.UserService = service.NewUserService(st, registry, tokens)
	router.ProblemService = service.NewProblemService(st, runner)
	router.SubmissionService = service.NewSubmissionService(st, runner)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{baseURL: srv.URL, client: srv.Client()}
}

var e2eIPCounter atomic.Int64

// do sends a JSON request, optionally with a session cookie. Each request
// claims a distinct client IP so per-IP limits never trip across tests.
func (e *env) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	n := e2eIPCounter.Add(1)
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.9.%d.%d", n/250%250, n%250))
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
