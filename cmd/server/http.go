package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/curator/internal/config"
	"github.com/JaimeStill/curator/pkg/lifecycle"
)

// listener owns the review API's HTTP server. The socket is bound in Start so
// an occupied port fails the boot instead of surfacing later in a log line.
type listener struct {
	srv     *http.Server
	addr    string
	bound   net.Addr
	drain   time.Duration
	logger  *slog.Logger
	serving chan error
}

func newListener(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *listener {
	read := cfg.ReadTimeoutDuration()
	return &listener{
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       read,
			ReadHeaderTimeout: read,
			WriteTimeout:      cfg.WriteTimeoutDuration(),
			IdleTimeout:       2 * read,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		addr:    cfg.Addr(),
		drain:   cfg.ShutdownTimeoutDuration(),
		logger:  logger.With("system", "http"),
		serving: make(chan error, 1),
	}
}

// Addr reports the bound address, or the configured one before Start.
func (l *listener) Addr() string {
	if l.bound != nil {
		return l.bound.String()
	}
	return l.addr
}

// Start binds the socket, serves in the background, and drains in-flight
// requests once lc is cancelled.
func (l *listener) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", l.addr, err)
	}
	l.bound = ln.Addr()

	l.logger.Info("accepting review traffic", "addr", l.Addr())
	go func() {
		err := l.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			l.logger.Error("serve failed", "error", err)
		}
		l.serving <- err
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.drain)
		defer cancel()

		l.logger.Info("draining connections", "timeout", l.drain)
		if err := l.srv.Shutdown(ctx); err != nil {
			l.logger.Error("drain incomplete", "error", err)
			return
		}
		<-l.serving
		l.logger.Info("listener closed")
	})

	return nil
}
