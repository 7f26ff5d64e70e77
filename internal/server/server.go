// Package server provides the HTTP API for skill assessment, readiness scoring and accounts.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-passport/internal/assessment"
	"github.com/jonathan/skill-passport/internal/cache"
	"github.com/jonathan/skill-passport/internal/config"
	"github.com/jonathan/skill-passport/internal/db"
	"github.com/jonathan/skill-passport/internal/llm"
	"github.com/jonathan/skill-passport/internal/logger"
	"github.com/jonathan/skill-passport/internal/mail"
	"github.com/jonathan/skill-passport/internal/server/ratelimit"
)

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	log            *logger.Logger
	assessor       Assessor
	jobs           JobStore
	accounts       *AccountService
	authHandler    *AuthHandler
	rateLimiter    *ratelimit.Limiter
	maxUploadBytes int64
	allowedOrigin  string
	closers        []func()
}

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Log            *logger.Logger
	Assessor       Assessor
	Jobs           JobStore
	Accounts       *AccountService
	RateLimiter    *ratelimit.Limiter
	OTPTestMode    bool
	MaxUploadBytes int64
	AllowedOrigin  string
}

// New connects to the database, cache, model and mail provider described by cfg
// and returns a server ready to Start.
func New(ctx context.Context, cfg *config.ServerConfig, log *logger.Logger) (*Server, error) {
	var closers []func()
	fail := func(err error) (*Server, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers = append(closers, database.Close)
	if err := database.EnsureSchema(ctx); err != nil {
		return fail(fmt.Errorf("failed to apply schema: %w", err))
	}

	var assessmentCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, log, cfg.RedisAddr, "skillpassport:")
		if err != nil {
			log.Warn("redis unavailable, assessment caching disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			assessmentCache = redisCache
			closers = append(closers, func() { _ = redisCache.Close() })
		}
	}

	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		llmConfig := llm.DefaultConfig()
		if cfg.GeminiModel != "" {
			llmConfig = llmConfig.WithModel(cfg.GeminiModel)
		}
		client, err = llm.NewClient(ctx, llmConfig, cfg.GeminiAPIKey)
		if err != nil {
			return fail(fmt.Errorf("failed to create model client: %w", err))
		}
		closers = append(closers, func() { _ = client.Close() })
	} else {
		log.Warn("GEMINI_API_KEY not set, live assessments unavailable")
	}

	var sender mail.Sender
	sendgridConfig := mail.SendGridConfigFromEnv()
	if sendgridConfig.APIKey != "" {
		sender, err = mail.NewSendGrid(log, sendgridConfig)
		if err != nil {
			return fail(fmt.Errorf("failed to create mail sender: %w", err))
		}
	} else {
		log.Warn("SENDGRID_API_KEY not set, verification codes are only logged")
		sender = mail.NewLogSender(log)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fail(fmt.Errorf("failed to create password config: %w", err))
	}
	otpConfig, err := config.NewOTPConfig()
	if err != nil {
		return fail(fmt.Errorf("failed to create otp config: %w", err))
	}

	assessor := assessment.NewService(client, assessmentCache, log, assessment.Config{
		DemoMode: cfg.DemoMode,
		Timeout:  cfg.AssessTimeout,
	})

	s := NewWithDeps(":"+cfg.Port, Deps{
		Log:            log,
		Assessor:       assessor,
		Jobs:           database,
		Accounts:       NewAccountService(database, sender, passwordConfig, otpConfig, log),
		RateLimiter:    ratelimit.NewLimiter(ratelimit.LoadConfig()),
		OTPTestMode:    otpConfig.TestMode,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AllowedOrigin:  cfg.AllowedOrigin,
	})
	s.closers = closers
	return s, nil
}

// NewWithDeps builds a server around existing collaborators.
func NewWithDeps(addr string, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if deps.AllowedOrigin == "" {
		deps.AllowedOrigin = "*"
	}

	s := &Server{
		log:            deps.Log,
		assessor:       deps.Assessor,
		jobs:           deps.Jobs,
		accounts:       deps.Accounts,
		rateLimiter:    deps.RateLimiter,
		maxUploadBytes: deps.MaxUploadBytes,
		allowedOrigin:  deps.AllowedOrigin,
	}
	s.authHandler = NewAuthHandler(deps.Accounts, deps.Log, deps.OTPTestMode)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/assess-skill", s.handleAssessSkill)

	// Readiness
	mux.HandleFunc("GET /api/roles", s.handleListRoles)
	mux.HandleFunc("POST /api/score", s.handleScore)
	mux.HandleFunc("POST /api/match", s.handleMatch)

	// Recruiter jobs
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.handleDeleteJob)

	// Accounts
	mux.HandleFunc("POST /auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /auth/verify-otp", s.authHandler.VerifyOTP)
	mux.HandleFunc("POST /auth/resend-otp", s.authHandler.ResendOTP)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.withLogging(s.withCORS(s.withRateLimit(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can take up to the assess timeout
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves requests and runs background maintenance until ctx is cancelled
// or the process receives SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	g.Go(func() error { return s.rateLimiter.Run(gctx) })

	if s.accounts != nil {
		g.Go(func() error { return s.accounts.RunSweeper(gctx) })
	}

	err := g.Wait()
	s.log.Info("server stopped")
	return err
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if s.allowedOrigin != "*" {
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware. Preflight requests are not counted.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("error encoding JSON response", "error", err)
	}
}

// writeError maps err to a status and writes {"error": message}. Server errors are logged.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	}
	writeJSON(w, log, status, map[string]string{"error": publicMessage(err)})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, s.log, status, data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, s.log, status, map[string]string{"error": message})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	writeError(w, s.log, err)
}

// extractClientID returns the client IP from RemoteAddr.
// X-Forwarded-For is ignored since it can be spoofed without a trusted proxy.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded", "limit", info.Limit, "reset", info.ResetTime.Format(time.RFC3339))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
