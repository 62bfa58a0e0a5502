package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/curator/internal/config"
	"github.com/JaimeStill/curator/internal/infrastructure"
)

// Server owns the review service process: infrastructure, mounted modules,
// and the listener in front of them.
type Server struct {
	cfg      *config.Config
	infra    *infrastructure.Infrastructure
	listener *listener
}

// NewServer builds every system from cfg without starting any of them.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)

	return &Server{
		cfg:      cfg,
		infra:    infra,
		listener: newListener(&cfg.Server, router, infra.Logger),
	}, nil
}

// Run starts the service and blocks until ctx is cancelled, then drains
// within the configured shutdown timeout. Readiness flips once every startup
// hook succeeds; a failed hook leaves /readyz reporting not ready.
func (s *Server) Run(ctx context.Context) error {
	log := s.infra.Logger
	log.Info("starting curator", "version", s.cfg.Version, "env", s.cfg.Env())

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.listener.Start(s.infra.Lifecycle); err != nil {
		return errors.Join(err, s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration()))
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			log.Error("subsystem startup failed", "error", err)
			return
		}
		log.Info("ready", "addr", s.listener.Addr())
	}()

	<-ctx.Done()
	log.Info("stop requested", "cause", context.Cause(ctx))
	return s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
}
