// Package devserver implements the calculation and survey endpoints locally
// so the CLI can be used end to end without external services.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/AbdelazizMoustafa10m/bacc/internal/bacc"
	"github.com/AbdelazizMoustafa10m/bacc/internal/submit"
)

// Route paths.
const (
	PathCalculate = "/api/calculate-bacc"
	PathResponses = "/api/survey-responses"
	PathFeed      = "/ws/survey-responses"
	PathHealth    = "/health"
)

// DefaultAddr matches the port the web calculator expects.
const DefaultAddr = ":5050"

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// SurveyResponse is a stored submission.
type SurveyResponse struct {
	ID         string                     `json:"id"`
	ReceivedAt time.Time                  `json:"received_at"`
	Timestamp  string                     `json:"timestamp"`
	Session    string                     `json:"session,omitempty"`
	Digest     string                     `json:"digest"`
	Responses  map[string]json.RawMessage `json:"responses"`
}

// Server holds the in-memory state of the development server.
type Server struct {
	calc   bacc.Calculator
	logger *log.Logger
	now    func() time.Time
	feed   *feed
	router *mux.Router

	mu        sync.RWMutex
	responses []SurveyResponse
	digests   map[string]string
}

// Option configures a Server.
type Option func(*Server)

// WithCalculator replaces the local calculator.
func WithCalculator(calc bacc.Calculator) Option {
	return func(s *Server) { s.calc = calc }
}

// WithLogger attaches a logger. When nil the server is silent.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock overrides the time source for received_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server with its routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		calc:    bacc.LocalCalculator{},
		now:     time.Now,
		feed:    newFeed(),
		digests: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Responses returns a copy of the stored submissions in arrival order.
func (s *Server) Responses() []SurveyResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SurveyResponse, len(s.responses))
	copy(out, s.responses)
	return out
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(s.logMiddleware)

	r.HandleFunc(PathHealth, s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc(PathCalculate, s.handleCalculate).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(PathResponses, s.handleSubmit).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc(PathResponses, s.handleList).Methods(http.MethodGet)
	r.HandleFunc(PathResponses+"/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc(PathFeed, s.handleFeed).Methods(http.MethodGet)
	return r
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// Websocket subscribers are disconnected before the HTTP server stops.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	if s.logger != nil {
		s.logger.Info("dev server listening", "addr", ln.Addr().String())
	}

	select {
	case err := <-errCh:
		s.feed.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.feed.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down dev server: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("dev server stopped")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.responses)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "responses": n})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req bacc.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.calc.Calculate(r.Context(), req)
	switch {
	case errors.Is(err, bacc.ErrIncomplete):
		// Incomplete forms get zero totals so the caller shows its prompt.
		writeJSON(w, http.StatusOK, zeroResult(req))
		return
	case errors.Is(err, bacc.ErrUnknownRank),
		errors.Is(err, bacc.ErrUnknownLocation),
		errors.Is(err, bacc.ErrUnknownAge),
		errors.Is(err, bacc.ErrInvalidCostShare):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	var payload struct {
		Timestamp string                     `json:"timestamp"`
		Responses map[string]json.RawMessage `json:"responses"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Responses == nil {
		writeError(w, http.StatusBadRequest, "body must be {timestamp, responses}")
		return
	}

	digest := submit.Digest(body)
	if claimed := r.Header.Get(submit.DigestHeader); claimed != "" && claimed != digest {
		writeError(w, http.StatusBadRequest, submit.DigestHeader+" does not match body")
		return
	}

	s.mu.Lock()
	if id, dup := s.digests[digest]; dup {
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "duplicate"})
		return
	}
	resp := SurveyResponse{
		ID:         uuid.NewString(),
		ReceivedAt: s.now().UTC(),
		Timestamp:  payload.Timestamp,
		Session:    r.Header.Get(submit.SessionHeader),
		Digest:     digest,
		Responses:  payload.Responses,
	}
	s.responses = append(s.responses, resp)
	s.digests[digest] = resp.ID
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("survey received", "id", resp.ID, "answers", len(resp.Responses))
	}
	if data, err := json.Marshal(resp); err == nil {
		s.feed.publish(data)
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": resp.ID, "status": "stored"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"responses": s.Responses()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, resp := range s.responses {
		if resp.ID == id {
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	writeError(w, http.StatusNotFound, "response not found")
}

func zeroResult(req bacc.Request) *bacc.Result {
	res := &bacc.Result{PerChild: make([]bacc.ChildResult, 0, len(req.Children))}
	for _, c := range req.Children {
		res.PerChild = append(res.PerChild, bacc.ChildResult{ID: c.ID, Age: c.Age})
	}
	return res
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger != nil {
			s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+submit.DigestHeader+", "+submit.SessionHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
