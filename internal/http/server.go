package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"vestadmin/internal/auth"
	"vestadmin/internal/config"
	applog "vestadmin/internal/log"
	"vestadmin/internal/middleware/ratelimit"
	"vestadmin/internal/middleware/security"
	"vestadmin/internal/middleware/trace"
	"vestadmin/internal/services"
)

// loginRequestsPerMinute bounds login attempts per client IP.
const loginRequestsPerMinute = 10

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Admins    *auth.AdminStore
	Sessions  auth.SessionIssuer
	Book      *services.ScheduleBook
	Dashboard *services.DashboardService
	Releases  *services.ReleaseService

	// Checks are run by /readyz, keyed by the name reported back.
	Checks map[string]func(context.Context) error

	Logger *applog.Logger
}

type Server struct {
	http.Server
	logger *applog.Logger

	admins    *auth.AdminStore
	sessions  auth.SessionIssuer
	book      *services.ScheduleBook
	dashboard *services.DashboardService
	releases  *services.ReleaseService
	checks    map[string]func(context.Context) error

	network       config.Network
	location      *time.Location
	sessionTTL    time.Duration
	secureCookies bool

	securityDetector *security.Detector
	rateLimiter      *ratelimit.Limiter
	traceMiddleware  *trace.Middleware

	started           time.Time
	now               func() time.Time
	releasesSubmitted int64
	loginFailures     int64

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	location, err := loadLocation(cfg.DisplayTimezone)
	if err != nil {
		logger.Warn("Unknown display timezone, using UTC", "timezone", cfg.DisplayTimezone, "error", err)
	}

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger:           logger,
		admins:           deps.Admins,
		sessions:         deps.Sessions,
		book:             deps.Book,
		dashboard:        deps.Dashboard,
		releases:         deps.Releases,
		checks:           deps.Checks,
		network:          cfg.Network,
		location:         location,
		sessionTTL:       cfg.SessionTTL,
		secureCookies:    cfg.IsProduction(),
		securityDetector: detector,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: loginRequestsPerMinute}),
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		started:          time.Now(),
		now:              time.Now,
	}

	loginLimit := s.rateLimiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, detector.ExtractClientIP(r),
			applog.FieldPath, r.URL.Path)
		TooManyRequestsError("too many login attempts, try again later").Write(w)
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.Handle("POST /api/auth/login", loginLimit(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.requireSession(s.handleMe))
	mux.HandleFunc("POST /api/auth/change-password", s.requireSession(s.handleChangePassword))

	mux.HandleFunc("GET /api/vesting", s.requireSession(s.handleDashboard))
	mux.HandleFunc("GET /api/vesting/next", s.requireSession(s.handleNextVesting))
	mux.HandleFunc("GET /api/vesting/schedules/{bucket}", s.requireSession(s.handleSchedule))
	mux.HandleFunc("POST /api/vesting/release", s.requireSession(s.handleRelease))

	mux.HandleFunc("GET /api/network", s.handleNetwork)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = headers.Middleware(handler)
	handler = detector.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
