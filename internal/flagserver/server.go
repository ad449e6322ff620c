// Package flagserver assembles the chi HTTP server mounting the Admin and
// Evaluation APIs, grounded on the teacher's catalogsrv/server package:
// CreateNewServer/MountHandlers, request logging and panic recovery
// middleware, CORS, and /version and /ready endpoints.
package flagserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/mbuczko/flagrant/internal/common/httpx"
	commonmiddleware "github.com/mbuczko/flagrant/internal/common/middleware"
	"github.com/mbuczko/flagrant/internal/flagapi"
	"github.com/mbuczko/flagrant/internal/flagconfig"
	"github.com/mbuczko/flagrant/internal/flagmetrics"
	"github.com/mbuczko/flagrant/internal/flagstore/postgresql"
)

// ServerVersion is reported on GET /version.
const ServerVersion = "flagrant-server/0.1"

// Server bundles the router and its dependencies.
type Server struct {
	Router *chi.Mux
	api    *flagapi.API
	pool   *postgresql.Pool
}

// CreateNewServer builds a Server around api and pool, ready for MountHandlers.
func CreateNewServer(api *flagapi.API, pool *postgresql.Pool) *Server {
	return &Server{
		Router: chi.NewRouter(),
		api:    api,
		pool:   pool,
	}
}

// MountHandlers wires middleware and routes onto s.Router.
func (s *Server) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if cfg := flagconfig.Config(); cfg != nil {
		s.Router.Use(commonmiddleware.SetTimeout(cfg.Server.GetRequestTimeout()))
		if cfg.Server.HandleCORS {
			s.Router.Use(s.handleCORS)
		}
	}

	// The Admin API is mounted at server root (spec §6's HTTP surface table:
	// "Listed paths are relative to server root"); only the Evaluation API
	// lives under /api/v1.
	s.Router.Group(func(ar chi.Router) {
		ar.Use(adminRequestMetrics)
		s.api.AdminRouter(ar)
	})
	s.Router.Route("/api/v1", func(r chi.Router) {
		s.api.EvaluationRouter(r)
	})

	s.Router.Get("/version", s.getVersion)
	s.Router.Get("/ready", s.getReadiness)
	s.Router.Handle("/metrics", flagmetrics.Handler())
}

// adminRequestMetrics records each Admin API request against
// flagmetrics.AdminRequestsTotal, labeled by method and resulting status.
func adminRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := httpx.NewResponseWriter(w)
		next.ServeHTTP(rw, r)
		flagmetrics.AdminRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.Status())).Inc()
	})
}

func (s *Server) handleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// VersionRsp is the GET /version response body.
type VersionRsp struct {
	ServerVersion string `json:"server_version"`
}

func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, &VersionRsp{ServerVersion: ServerVersion})
}

func (s *Server) getReadiness(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.SQLDB().PingContext(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("readiness check failed")
		httpx.SendJsonRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "database connection failed",
		})
		return
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{"status": "ready"})
}
