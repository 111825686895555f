package routegroups

import (
	"opsassist-dashboard/api/handlers"

	"github.com/go-chi/chi/v5"
)

func RegisterMeta(apiRouter chi.Router, g Guards, quickActions *handlers.QuickActionsHandler) {
	apiRouter.MethodFunc("GET", "/meta", g.WithSession(quickActions.Meta))
}

func RegisterQuickActions(apiRouter chi.Router, g Guards, quickActions *handlers.QuickActionsHandler) {
	apiRouter.Route("/quick-actions", func(quickRouter chi.Router) {
		quickRouter.MethodFunc("POST", "/events", g.WithSession(quickActions.SendEvent))
		quickRouter.MethodFunc("POST", "/simulate", g.WithSession(quickActions.Simulate))
	})
}
