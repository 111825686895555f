package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"opsassist-dashboard/config"
	"opsassist-dashboard/core/appbootstrap"
)

func main() {
	// A local .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv(config.ConfigPathEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := appbootstrap.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := appbootstrap.Run(ctx, cfg, logger); err != nil {
		logger.Errorf("dashboard exited: %v", err)
		stop()
		os.Exit(1)
	}
}
