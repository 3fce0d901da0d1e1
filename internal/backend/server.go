package backend

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/qkart/internal/catalog"
	"github.com/abelbrown/qkart/internal/logging"
	"github.com/abelbrown/qkart/internal/otel"
)

// DefaultPrefix is where the API is mounted.
const DefaultPrefix = "/api/v1"

// Messages carried in {"success": false, "message": ...} bodies.
const (
	msgNotFound = "No products found"
	msgInternal = "Something went wrong. Check the backend console for more details"
)

// Catalog is what the server reads products from. *Store implements it.
type Catalog interface {
	All() ([]catalog.Item, error)
	Search(text string) ([]catalog.Item, error)
}

// ServerConfig configures a Server.
type ServerConfig struct {
	Prefix string        // defaults to DefaultPrefix
	Delay  time.Duration // artificial latency per request, for exercising slow networks
	Events *otel.Logger
}

// Server serves the catalog over HTTP.
type Server struct {
	cat    Catalog
	cfg    ServerConfig
	mux    *http.ServeMux
	events *otel.Logger
}

// NewServer creates a handler for cat.
func NewServer(cat Catalog, cfg ServerConfig) *Server {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	cfg.Prefix = "/" + strings.Trim(cfg.Prefix, "/")

	s := &Server{cat: cat, cfg: cfg, mux: http.NewServeMux(), events: cfg.Events}
	s.mux.HandleFunc("GET "+cfg.Prefix+"/products", s.handleProducts)
	s.mux.HandleFunc("GET "+cfg.Prefix+"/products/search", s.handleSearch)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	if s.cfg.Delay > 0 {
		select {
		case <-time.After(s.cfg.Delay):
		case <-r.Context().Done():
			return
		}
	}
	s.mux.ServeHTTP(rec, r)

	s.events.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindServerRequest,
		Comp:   "server",
		Query:  r.URL.Query().Get("value"),
		Status: rec.status,
		Count:  rec.count,
		Dur:    time.Since(start),
		Msg:    r.Method + " " + r.URL.Path,
	})
	logging.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dur", time.Since(start))
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	items, err := s.cat.All()
	if err != nil {
		s.storeFailed(w, "all", err)
		return
	}
	writeItems(w, items)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	items, err := s.cat.Search(r.URL.Query().Get("value"))
	if err != nil {
		s.storeFailed(w, "search", err)
		return
	}
	if len(items) == 0 {
		writeFailure(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeItems(w, items)
}

func (s *Server) storeFailed(w http.ResponseWriter, op string, err error) {
	s.events.Emit(otel.Event{
		Level: otel.LevelError,
		Kind:  otel.KindStoreError,
		Comp:  "server",
		Err:   err.Error(),
		Msg:   op,
	})
	logging.Error("store failed", "op", op, "error", err)
	writeFailure(w, http.StatusInternalServerError, msgInternal)
}

func writeItems(w http.ResponseWriter, items []catalog.Item) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.count = len(items)
	}
	writeJSON(w, http.StatusOK, items)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{false, message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("write response", "error", err)
	}
}

// statusRecorder captures what a handler answered, for the request event.
type statusRecorder struct {
	http.ResponseWriter
	status int
	count  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
