package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/domainhealth/internal/domain"
	"github.com/hamed0406/domainhealth/internal/httpapi/middleware"
	"github.com/hamed0406/domainhealth/internal/repo"
)

// Server exposes a read-only view of the availability ledger.
type Server struct {
	Logger  *zap.Logger
	Ledger  repo.Snapshotter
	Started time.Time
}

func NewServer(l *zap.Logger, ledger repo.Snapshotter) *Server {
	return &Server{Logger: l, Ledger: ledger, Started: time.Now().UTC()}
}

// Router builds the HTTP handler. reqPerMin <= 0 disables rate limiting.
func (s *Server) Router(reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(reqPerMin, burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/availability", s.handleList)
	r.Get("/api/availability/{domain}", s.handleGet)

	return r
}

type listResponse struct {
	Since   time.Time                 `json:"since"`
	Domains []repo.DomainAvailability `json:"domains"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{Since: s.Started, Domains: s.Ledger.Snapshot()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	want := domain.Domain(strings.ToLower(chi.URLParam(r, "domain")))
	for _, d := range s.Ledger.Snapshot() {
		if d.Domain == want {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	s.Logger.Debug("status_unknown_domain", zap.String("domain", want.String()))
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown domain"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
