package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"opsassist-dashboard/api/handlers"
	"opsassist-dashboard/api/routegroups"
)

type routeHandlers struct {
	incidents    *handlers.IncidentsHandler
	quickActions *handlers.QuickActionsHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	return routeHandlers{
		incidents:    handlers.NewIncidentsHandler(s.sessions, s.logger),
		quickActions: handlers.NewQuickActionsHandler(s.quickActions, s.logger),
	}
}

func (s *Server) registerRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.securityHeadersMiddleware)

	h := s.newRouteHandlers()
	g := routegroups.Guards{Session: s.withSession}

	r.MethodFunc("GET", "/healthz", s.healthz)
	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(render.SetContentType(render.ContentTypeJSON))
		routegroups.RegisterMeta(apiRouter, g, h.quickActions)
		routegroups.RegisterIncidents(apiRouter, g, h.incidents)
		routegroups.RegisterQuickActions(apiRouter, g, h.quickActions)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"code": "not_found", "message": "route not found"},
		})
	})
	s.router = r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
