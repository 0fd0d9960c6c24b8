package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"crewfin/internal/backend"
	"crewfin/internal/services"
)

type Server struct {
	http.Server
	dash    *services.DashboardService
	txs     *services.TransactionService
	users   backend.UserDirectory
	reports *services.ReportService
	plans   *services.PlanService

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures the API routes and returns a ready-to-run server.
// Write endpoints are rate limited per client IP; every request gets a
// request id and an access log line.
func NewServer(addr string, dash *services.DashboardService, txs *services.TransactionService, users backend.UserDirectory, reports *services.ReportService, plans *services.PlanService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		dash:        dash,
		txs:         txs,
		users:       users,
		reports:     reports,
		plans:       plans,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/v1/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/v1/dashboard/stats", s.withMiddleware(s.handleDashboardStats))
	mux.HandleFunc("GET /api/v1/dashboard/monthly", s.withMiddleware(s.handleDashboardMonthly))
	mux.HandleFunc("GET /api/v1/dashboard/categories", s.withMiddleware(s.handleDashboardCategories))
	mux.HandleFunc("GET /api/v1/dashboard/team", s.withMiddleware(s.handleDashboardTeam))
	mux.HandleFunc("POST /api/v1/dashboard/refresh", s.withMiddleware(s.handleDashboardRefresh))

	mux.HandleFunc("GET /api/v1/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/v1/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/v1/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/v1/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/v1/transactions/bulk-delete", s.withMiddleware(s.handleBulkDelete))
	mux.HandleFunc("POST /api/v1/transactions/bulk-category", s.withMiddleware(s.handleBulkCategory))

	mux.HandleFunc("GET /api/v1/users", s.withMiddleware(s.handleListUsers))
	mux.HandleFunc("POST /api/v1/users", s.withMiddleware(s.handleCreateUser))
	mux.HandleFunc("PUT /api/v1/users/{id}", s.withMiddleware(s.handleUpdateUser))
	mux.HandleFunc("DELETE /api/v1/users/{id}", s.withMiddleware(s.handleDeleteUser))

	mux.HandleFunc("GET /api/v1/reports/statement", s.withMiddleware(s.handleBuildStatement))
	mux.HandleFunc("POST /api/v1/reports/statements", s.withMiddleware(s.handleRecordStatement))
	mux.HandleFunc("GET /api/v1/reports/statements", s.withMiddleware(s.handleArchivedStatements))

	mux.HandleFunc("GET /api/v1/plans", s.withMiddleware(s.handleListPlans))
	mux.HandleFunc("POST /api/v1/plans", s.withMiddleware(s.handleCreatePlan))
	mux.HandleFunc("DELETE /api/v1/plans/{id}", s.withMiddleware(s.handleDeletePlan))
	mux.HandleFunc("GET /api/v1/plans/{id}/stats", s.withMiddleware(s.handlePlanStats))
	mux.HandleFunc("GET /api/v1/plans/{id}/members", s.withMiddleware(s.handlePlanMembers))
	mux.HandleFunc("POST /api/v1/plans/{id}/installments", s.withMiddleware(s.handleRecordInstallment))

	return s
}

// Shutdown stops the server and its rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// withMiddleware adds security headers, rate limiting on writes, request
// IDs, and access logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
