// Package web exposes the nutrition ledger, food catalog, goal calculator,
// meal recognition and plan generation over a JSON API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mkowalik/dailybite/internal/catalog"
	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/ledger"
	"github.com/mkowalik/dailybite/internal/mealplan"
	"github.com/mkowalik/dailybite/internal/mediastore"
	"github.com/mkowalik/dailybite/internal/recognition"
)

type Server struct {
	ledger     *ledger.Ledger
	catalog    catalog.Client
	recognizer recognition.Recognizer
	plans      mealplan.Client
	poller     *mealplan.Poller
	media      mediastore.MediaStore
	mux        *http.ServeMux
	logger     *slog.Logger

	mu      sync.Mutex
	watches map[string]*planWatch
}

// NewServer builds the API server. media may be nil; recognition uploads are
// then processed without being kept.
func NewServer(l *ledger.Ledger, cat catalog.Client, rec recognition.Recognizer, plans mealplan.Client, poller *mealplan.Poller, media mediastore.MediaStore, logger *slog.Logger) *Server {
	s := &Server{
		ledger:     l,
		catalog:    cat,
		recognizer: rec,
		plans:      plans,
		poller:     poller,
		media:      media,
		mux:        http.NewServeMux(),
		logger:     logger,
		watches:    make(map[string]*planWatch),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/log/{date}", s.handleGetDailyLog)
	s.mux.HandleFunc("POST /api/log/{date}/meals", s.handleCommitMeal)
	s.mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	s.mux.HandleFunc("PATCH /api/entries/{id}", s.handleUpdateEntry)

	s.mux.HandleFunc("GET /api/goal", s.handleGetGoal)

	s.mux.HandleFunc("GET /api/foods/search", s.handleSearchFoods)
	s.mux.HandleFunc("GET /api/foods/barcode/{code}", s.handleGetFoodByBarcode)
	s.mux.HandleFunc("POST /api/foods", s.handleCreateFood)

	s.mux.HandleFunc("POST /api/recognize/photo", s.handleRecognizePhoto)
	s.mux.HandleFunc("POST /api/recognize/voice", s.handleRecognizeVoice)
	s.mux.HandleFunc("GET /api/media/{key}", s.handleGetMedia)
	s.mux.HandleFunc("DELETE /api/media/{key}", s.handleDeleteMedia)

	s.mux.HandleFunc("POST /api/mealplan", s.handleStartMealPlan)
	s.mux.HandleFunc("GET /api/mealplan/{taskId}", s.handleGetMealPlanStatus)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// Close stops all running meal-plan watches.
func (s *Server) Close() {
	s.mu.Lock()
	watches := make([]*planWatch, 0, len(s.watches))
	for _, w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.Unlock()

	for _, w := range watches {
		w.handle.Stop()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses and emits a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, recognition.ErrUnsupported):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrRecognition), errors.Is(err, domain.ErrTransient):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
