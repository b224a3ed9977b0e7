package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/codemasterhq/codemaster/internal/revocation"
	"github.com/codemasterhq/codemaster/internal/service"
	"github.com/codemasterhq/codemaster/internal/store"
	"github.com/codemasterhq/codemaster/pkg/httpx"
	"github.com/codemasterhq/codemaster/pkg/jwtx"
	"github.com/codemasterhq/codemaster/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	registry      revocation.Registry
	store         store.Store
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	cookieMaxAge  int
	secureCookies bool

	UserService       *service.UserService
	ProblemService    *service.ProblemService
	SubmissionService *service.SubmissionService
	DoubtService      *service.DoubtService
	VideoService      *service.VideoService
}

type RouterConfig struct {
	Verifier       jwtx.Verifier
	Registry       revocation.Registry
	Store          store.Store
	BuildVersion   string
	AllowedOrigins []string
	CookieMaxAge   int
	SecureCookies  bool
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      cfg.Verifier,
		registry:      cfg.Registry,
		store:         cfg.Store,
		buildVersion:  cfg.BuildVersion,
		startTime:     time.Now(),
		logger:        cfg.Logger,
		cookieMaxAge:  cfg.CookieMaxAge,
		secureCookies: cfg.SecureCookies,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		CORSMiddleware(cfg.AllowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerProblems()
	r.registerSubmissions()
	r.registerDoubt()
	r.registerVideos()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// session verifies the cookie, the revocation registry and account
// existence before admitting a request.
func (r *Router) session() httpx.Middleware {
	return SessionMiddleware(r.verifier, r.registry, r.store.Users())
}

func (r *Router) registerUsers() {
	auth := &AuthHandler{
		UserService:   r.UserService,
		CookieMaxAge:  r.cookieMaxAge,
		SecureCookies: r.secureCookies,
	}
	profile := &ProfileHandler{
		UserService:   r.UserService,
		SecureCookies: r.secureCookies,
	}

	// Credential endpoints are anonymous and strictly limited by IP.
	r.Mux.Handle("POST /user/register",
		httpx.Chain(http.HandlerFunc(auth.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /user/login",
		httpx.Chain(http.HandlerFunc(auth.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Admin registration is deliberately left without a role guard to match
	// the current frontend; the strict limit is the only brake.
	r.Mux.Handle("POST /user/admin/register",
		httpx.Chain(http.HandlerFunc(auth.HandleAdminRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /user/logout",
		httpx.Chain(http.HandlerFunc(auth.HandleLogout),
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /user/check",
		httpx.Chain(http.HandlerFunc(profile.HandleCheck),
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /user/profile",
		httpx.Chain(http.HandlerFunc(profile.HandleDelete),
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /user/profilePicture",
		httpx.Chain(http.HandlerFunc(profile.HandleGetPicture),
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /user/profilePicture",
		httpx.Chain(http.HandlerFunc(profile.HandleSetPicture),
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProblems() {
	h := &ProblemsHandler{ProblemService: r.ProblemService}

	// Catalogue writes are admin operations.
	r.Mux.Handle("POST /problem/create",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.session(),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /problem/update/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.session(),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /problem/delete/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.session(),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /problem/problemById/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /problem/getAllProblem",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /problem/problemSolvedByUser",
		httpx.Chain(http.HandlerFunc(h.HandleSolved),
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSubmissions() {
	h := &SubmissionsHandler{SubmissionService: r.SubmissionService}

	// Judge-backed endpoints are the most expensive in the system, so both
	// get the moderate per-user limit.
	r.Mux.Handle("POST /submission/run/{problemId}",
		httpx.Chain(http.HandlerFunc(h.HandleRun),
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /submission/submit/{problemId}",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /submission/{problemId}",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

// featureDisabled stands in for routes whose backing integration is not
// configured in this deployment.
func featureDisabled(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteError(w, http.StatusServiceUnavailable,
		"feature_disabled", "This feature is not configured")
}

func (r *Router) registerDoubt() {
	if r.DoubtService == nil {
		r.Mux.HandleFunc("POST /ai/chat", featureDisabled)
		return
	}
	h := &DoubtHandler{DoubtService: r.DoubtService}

	r.Mux.Handle("POST /ai/chat",
		httpx.Chain(h,
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerVideos() {
	if r.VideoService == nil {
		r.Mux.HandleFunc("GET /video/create/{problemId}", featureDisabled)
		r.Mux.HandleFunc("POST /video/save", featureDisabled)
		r.Mux.HandleFunc("DELETE /video/delete/{problemId}", featureDisabled)
		return
	}
	h := &VideosHandler{VideoService: r.VideoService}

	r.Mux.Handle("GET /video/create/{problemId}",
		httpx.Chain(http.HandlerFunc(h.HandleCreateGrant),
			r.session(),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /video/save",
		httpx.Chain(http.HandlerFunc(h.HandleSave),
			r.session(),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /video/delete/{problemId}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.session(),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.registry),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
