package routegroups

import (
	"opsassist-dashboard/api/handlers"

	"github.com/go-chi/chi/v5"
)

func RegisterIncidents(apiRouter chi.Router, g Guards, incidents *handlers.IncidentsHandler) {
	apiRouter.Route("/incidents", func(incidentsRouter chi.Router) {
		incidentsRouter.MethodFunc("GET", "/", g.WithSession(incidents.List))
		incidentsRouter.MethodFunc("GET", "/{id:[0-9]+}", g.WithSession(incidents.Get))
		incidentsRouter.MethodFunc("POST", "/{id:[0-9]+}/status", g.WithSession(incidents.UpdateStatus))
		incidentsRouter.MethodFunc("POST", "/{id:[0-9]+}/actions/{action}", g.WithSession(incidents.PerformAction))
	})
}
