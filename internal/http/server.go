// Package http exposes the record store, the aggregation engine and
// the settings document as a JSON API, plus printable HTML reports.
package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/chungddong/ChurchFinance/internal/settings"
	"github.com/chungddong/ChurchFinance/internal/store"
	appweb "github.com/chungddong/ChurchFinance/web"
)

type Server struct {
	http.Server
	store     *store.Store
	settings  *settings.Store
	templates *template.Template

	rateLimiter *rateLimiter
	statsCache  *lruCache[[]byte]

	unsubscribe  func()
	shutdownOnce sync.Once
}

// NewServer wires routes, templates and caches, returning a
// ready-to-run server.
func NewServer(addr string, st *store.Store, set *settings.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:       st,
		settings:    set,
		rateLimiter: newRateLimiter(),
		statsCache:  newLRUCache[[]byte](100, time.Minute),
	}

	// Statistics are cached per query string; any committed mutation
	// invalidates the whole cache.
	s.unsubscribe = st.Subscribe(func(store.Change) {
		s.statsCache.Clear()
	})

	funcs := template.FuncMap{
		"won":  formatWon,
		"date": func(t time.Time) string { return t.Format("2006-01-02") },
		"add1": func(i int) int { return i + 1 },
	}
	t, err := template.New("reports").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/members", s.withSecurityHeaders(s.handleMembers))
	mux.HandleFunc("/api/members/", s.withSecurityHeaders(s.handleMemberByID))
	mux.HandleFunc("/api/donations", s.withSecurityHeaders(s.handleDonations))
	mux.HandleFunc("/api/donations/", s.withSecurityHeaders(s.handleDonationByID))
	mux.HandleFunc("/api/expenses", s.withSecurityHeaders(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.withSecurityHeaders(s.handleExpenseByID))

	mux.HandleFunc("/api/statistics", s.withSecurityHeaders(s.handleStatistics))
	mux.HandleFunc("/api/receipts", s.withSecurityHeaders(s.handleReceiptData))
	mux.HandleFunc("/receipts/print", s.withSecurityHeaders(s.handleReceiptPrint))
	mux.HandleFunc("/reports/members", s.withSecurityHeaders(s.handleMemberRoster))

	mux.HandleFunc("/api/settings", s.withSecurityHeaders(s.handleSettings))
	mux.HandleFunc("/api/settings/church", s.withSecurityHeaders(s.handleChurchInfo))
	mux.HandleFunc("/api/settings/donation-types", s.withSecurityHeaders(s.handleDonationTypes))
	mux.HandleFunc("/api/backup", s.withSecurityHeaders(s.handleBackup))
	mux.HandleFunc("/api/restore", s.withSecurityHeaders(s.handleRestore))
	mux.HandleFunc("/api/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/api/password", s.withSecurityHeaders(s.handlePassword))

	return s
}

// Shutdown stops the listener, the cache subscription and the rate
// limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on mutating
// methods, a request id and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.DebugContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP)

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
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
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports readiness along with the collection sizes, which
// doubles as a cheap staleness probe for pollers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	members, donations, expenses := s.store.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"members":   members,
		"donations": donations,
		"expenses":  expenses,
	})
}
