package appbootstrap

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"opsassist-dashboard/api"
	"opsassist-dashboard/config"
	"opsassist-dashboard/core/utils"
)

const shutdownTimeout = 10 * time.Second

func NewLogger(cfg *config.AppConfig) *utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{
		Level:   cfg.LogLevel,
		Console: cfg.IsDevelopment(),
	})
}

// Run serves the dashboard until ctx is cancelled, then drains the server and stops workers.
func Run(ctx context.Context, cfg *config.AppConfig, logger *utils.Logger) error {
	rt, err := composeRuntime(cfg, logger)
	if err != nil {
		return err
	}
	server := api.NewServer(cfg, rt.serverDeps, logger)
	logger.Printf("incident store at %s", rt.store.BaseURL())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for _, w := range rt.workers {
		w.StartWithContext(runCtx)
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		for _, w := range rt.workers {
			if err := w.StopWithContext(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	err = g.Wait()
	logger.Printf("dashboard stopped")
	return err
}
