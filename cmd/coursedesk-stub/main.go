package main

import (
	"log"

	"github.com/coursedesk/coursedesk/internal/stubserver"
	"github.com/coursedesk/coursedesk/pkg/config"
	"github.com/coursedesk/coursedesk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	srv := stubserver.New(cfg, logr)
	if err := srv.Run(); err != nil {
		logr.Sugar().Fatalw("stub api failed", "error", err)
	}
}
