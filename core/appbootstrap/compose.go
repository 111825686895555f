package appbootstrap

import (
	"opsassist-dashboard/api"
	"opsassist-dashboard/config"
	"opsassist-dashboard/core/dashboard"
	"opsassist-dashboard/core/lifecycle"
	"opsassist-dashboard/core/quickactions"
	"opsassist-dashboard/core/storeclient"
	"opsassist-dashboard/core/utils"
)

type runtimeComposition struct {
	serverDeps api.ServerDeps
	store      *storeclient.Client
	workers    []api.BackgroundWorker
}

func composeRuntime(cfg *config.AppConfig, logger *utils.Logger) (*runtimeComposition, error) {
	store := storeclient.NewClient(cfg.Store, logger.With("component", "storeclient"))
	sessions, err := dashboard.NewManager(store, dashboard.ManagerOptions{
		Lifecycle: lifecycle.Options{
			Timeout:                cfg.Store.TransitionTimeout,
			RefreshAfterTransition: cfg.Store.RefreshAfterTransition,
		},
		IdleTTL:       cfg.Sessions.IdleTTL,
		SweepSchedule: cfg.Sessions.SweepSchedule,
	}, logger.With("component", "dashboard"))
	if err != nil {
		return nil, err
	}
	quick := quickactions.NewService(store, cfg.QuickActions, cfg.Store.DocsURL(), logger.With("component", "quickactions"))

	return &runtimeComposition{
		serverDeps: api.ServerDeps{
			Sessions:     sessions,
			QuickActions: quick,
		},
		store:   store,
		workers: []api.BackgroundWorker{sessions},
	}, nil
}
