package http

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

	"github.com/codemasterhq/codemaster/internal/ai"
	"github.com/codemasterhq/codemaster/internal/domain"
	"github.com/codemasterhq/codemaster/internal/judge"
	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/service"
	"github.com/codemasterhq/codemaster/internal/store/storetest"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef"

type acceptAllRunner struct{}

func (acceptAllRunner) Run(ctx context.Context, lang domain.Language, code string, cases []domain.TestCase) ([]judge.Result, error) {
	out := make([]judge.Result, 0, len(cases))
	for range cases {
		out = append(out, judge.Result{StatusID: judge.StatusAccepted, StatusDesc: "Accepted", TimeSec: 0.01, MemoryKB: 512})
	}
	return out, nil
}

type echoModel struct{}

func (echoModel) Chat(ctx context.Context, instruction string, history []ai.Message) (string, error) {
	return "answer: " + history[len(history)-1].Text, nil
}

type stubMedia struct{}

func (stubMedia) PresignUpload(ctx context.Context, key string) (string, error) {
	return "https://media.test/upload/" + key, nil
}
func (stubMedia) ObjectURL(key string) string           { return "https://media.test/" + key }
func (stubMedia) Delete(ctx context.Context, key string) error { return nil }

type testEnv struct {
	router   *Router
	store    *storetest.Store
	registry *revocation.MemoryRegistry
	signer   *jwtx.HS256Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := storetest.New()
	reg := revocation.NewMemoryRegistry()

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256([]byte(testSecret), "codemaster")

	tokens := service.NewTokenService(signer, "codemaster", time.Hour)

	r := NewRouter(RouterConfig{
		Verifier:       verifier,
		Registry:       reg,
		Store:          st,
		BuildVersion:   "test",
		AllowedOrigins: []string{"http://localhost:5173"},
		CookieMaxAge:   3600,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	r.UserService = service.NewUserService(st, reg, tokens)
	r.ProblemService = service.NewProblemService(st, acceptAllRunner{})
	r.SubmissionService = service.NewSubmissionService(st, acceptAllRunner{})
	r.DoubtService = service.NewDoubtService(st, echoModel{})
	r.VideoService = service.NewVideoService(st, stubMedia{})
	r.ApplyRoutes()

	return &testEnv{router: r, store: st, registry: reg, signer: signer}
}

var testIPCounter atomic.Int64

// do sends a request through the full middleware chain. Each call gets a
// unique client IP so the strict per-IP limits never trip across tests.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.%d.%d",
		testIPCounter.Add(1)%250, testIPCounter.Load()/250%250))
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"firstName": "Ann",
		"lastName":  "Chovey",
		"emailId":   email,
		"password":  "Sup3rSecret",
	}
}

func (e *testEnv) registerUser(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/user/register", registerBody(email), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return sessionCookie(t, rec)
}

func (e *testEnv) registerAdmin(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/user/admin/register", registerBody(email), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return sessionCookie(t, rec)
}

func (e *testEnv) createProblem(t *testing.T, admin *http.Cookie) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/problem/create", map[string]any{
		"title":       "Two Sum",
		"description": "Find two numbers adding to target.",
		"difficulty":  "easy",
		"tags":        []string{"array"},
		"visibleTestCases": []map[string]string{
			{"input": "2 7\n9", "output": "0 1", "explanation": "2+7=9"},
		},
		"hiddenTestCases": []map[string]string{
			{"input": "3 3\n6", "output": "0 1"},
		},
		"startCode": []map[string]string{
			{"language": "cpp", "initialCode": "int main() {}"},
		},
		"referenceSolution": []map[string]string{
			{"language": "cpp", "completeCode": "int main() { /* full */ }"},
		},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// Register sets the session cookie and returns the account.
	rec := env.do(t, http.MethodPost, "/user/register", registerBody("ann@example.com"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, 3600, cookie.MaxAge)

	var created sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "ann@example.com", created.User.EmailID)
	require.Equal(t, "user", created.User.Role)

	// The cookie admits authenticated requests.
	rec = env.do(t, http.MethodGet, "/user/check", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout revokes the token and clears the cookie.
	rec = env.do(t, http.MethodPost, "/user/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(t, rec)
	require.Less(t, cleared.MaxAge, 0)

	// The revoked token is refused even though it has not expired.
	rec = env.do(t, http.MethodGet, "/user/check", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "logged out")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser(t, "ann@example.com")

	rec := env.do(t, http.MethodPost, "/user/register", registerBody("ann@example.com"), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "email_taken")
}

func TestAdminRegisterRole(t *testing.T) {
	env := newTestEnv(t)

	t.Run("persists the supplied role", func(t *testing.T) {
		body := registerBody("ann@example.com")
		body["role"] = "user"

		rec := env.do(t, http.MethodPost, "/user/admin/register", body, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, "user", created.User.Role)
	})

	t.Run("defaults to admin when absent", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/user/admin/register", registerBody("root@example.com"), nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Equal(t, "admin", created.User.Role)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		body := registerBody("eve@example.com")
		body["role"] = "superuser"

		rec := env.do(t, http.MethodPost, "/user/admin/register", body, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	body := registerBody("ann@example.com")
	body["password"] = "short"

	rec := env.do(t, http.MethodPost, "/user/register", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginGenericError(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "ann@example.com")

	wrongPassword := env.do(t, http.MethodPost, "/user/login", map[string]string{
		"emailId": "ann@example.com", "password": "WrongPass1",
	}, nil)
	unknownEmail := env.do(t, http.MethodPost, "/user/login", map[string]string{
		"emailId": "ghost@example.com", "password": "Sup3rSecret",
	}, nil)

	// Same status and body for both failure modes.
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginIssuesFreshSession(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "ann@example.com")

	rec := env.do(t, http.MethodPost, "/user/login", map[string]string{
		"emailId": "ann@example.com", "password": "Sup3rSecret",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := sessionCookie(t, rec)
	rec = env.do(t, http.MethodGet, "/user/check", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteAccountLocksOutToken(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "ann@example.com")

	rec := env.do(t, http.MethodDelete, "/user/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// The token still verifies cryptographically but the account is gone.
	rec = env.do(t, http.MethodGet, "/user/check", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfilePicture(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.registerUser(t, "ann@example.com")

	rec := env.do(t, http.MethodPut, "/user/profilePicture", map[string]string{
		"image": "https://img.example.com/ann.png",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/user/profilePicture", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ann.png")

	// The image is an opaque reference; inline base64 blobs are stored
	// untouched, same as URLs.
	t.Run("accepts base64 blobs", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/user/profilePicture", map[string]string{
			"image": "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==",
		}, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/user/profilePicture", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "base64")
	})
}

func TestProblemEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin(t, "root@example.com")
	user := env.registerUser(t, "ann@example.com")

	problemID := env.createProblem(t, admin)

	t.Run("create requires admin", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/problem/create", map[string]any{}, user)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("get hides hidden cases and solutions", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/problem/problemById/"+problemID, nil, user)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), "hiddenTestCases")
		require.NotContains(t, rec.Body.String(), "referenceSolution")
		require.Contains(t, rec.Body.String(), "visibleTestCases")
	})

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/problem/getAllProblem", nil, user)
		require.Equal(t, http.StatusOK, rec.Code)

		var out []problemSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Len(t, out, 1)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/problem/delete/"+problemID, nil, user)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodDelete, "/problem/delete/"+problemID, nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSubmissionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin(t, "root@example.com")
	user := env.registerUser(t, "ann@example.com")
	problemID := env.createProblem(t, admin)

	code := map[string]string{"code": "int main() {}", "language": "cpp"}

	t.Run("run", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/submission/run/"+problemID, code, user)
		require.Equal(t, http.StatusOK, rec.Code)

		var out runResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.True(t, out.Success)
	})

	t.Run("submit records verdict and solved problem", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/submission/submit/"+problemID, code, user)
		require.Equal(t, http.StatusCreated, rec.Code)

		var out submissionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Equal(t, "accepted", out.Status)

		solved := env.do(t, http.MethodGet, "/problem/problemSolvedByUser", nil, user)
		require.Equal(t, http.StatusOK, solved.Code)
		require.Contains(t, solved.Body.String(), problemID)
	})

	t.Run("history", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/submission/"+problemID, nil, user)
		require.Equal(t, http.StatusOK, rec.Code)

		var out []submissionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.NotEmpty(t, out)
	})

	t.Run("invalid language", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/submission/run/"+problemID,
			map[string]string{"code": "x", "language": "rust"}, user)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDoubtEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin(t, "root@example.com")
	user := env.registerUser(t, "ann@example.com")
	problemID := env.createProblem(t, admin)

	rec := env.do(t, http.MethodPost, "/ai/chat", map[string]any{
		"problemId": problemID,
		"messages": []map[string]string{
			{"role": "user", "text": "How do I start?"},
		},
	}, user)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "answer: How do I start?")
}

func TestVideoEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAdmin(t, "root@example.com")
	user := env.registerUser(t, "ann@example.com")
	problemID := env.createProblem(t, admin)

	t.Run("grant requires admin", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/video/create/"+problemID, nil, user)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	var objectKey string
	t.Run("grant and save", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/video/create/"+problemID, nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)

		var grant struct {
			UploadURL string `json:"uploadUrl"`
			ObjectKey string `json:"objectKey"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grant))
		require.NotEmpty(t, grant.UploadURL)
		objectKey = grant.ObjectKey

		rec = env.do(t, http.MethodPost, "/video/save", map[string]any{
			"problemId": problemID, "objectKey": objectKey, "duration": 612.5,
		}, admin)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("editorial shows on problem", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/problem/problemById/"+problemID, nil, user)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "editorial")
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/video/delete/"+problemID, nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodDelete, "/video/delete/"+problemID, nil, admin)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "registry")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	t.Run("unknown origin gets no header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/user/login", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
