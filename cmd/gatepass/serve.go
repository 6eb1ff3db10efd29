package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	gatepass "github.com/alnah/go-gatepass"
	"github.com/alnah/go-gatepass/internal/config"
	"github.com/alnah/go-gatepass/internal/fileutil"
	"github.com/alnah/go-gatepass/internal/hints"
	"github.com/alnah/go-gatepass/internal/server"
)

// HTTP server timeouts. Writes are unbounded by a deadline because a
// submit request lasts as long as the conversion.
const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
	shutdownGrace     = 10 * time.Second
)

// runServeCmd starts the HTTP server and blocks until a shutdown signal.
func runServeCmd(args []string, env *Environment) error {
	f, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(f.common, f.runtime, f.addr)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Log, f.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if err := checkServeReady(cfg, log); err != nil {
		return err
	}

	svc := newService(cfg, log, env.now)
	defer func() { _ = svc.Close() }()

	handler, err := server.New(svc, svc, server.WithLogger(log))
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	ctx, stop := env.notify(context.Background())
	defer stop()

	log.WithFields(logrus.Fields{
		"addr":     ln.Addr().String(),
		"base_url": cfg.Server.BaseURL,
		"static":   cfg.Storage.StaticDir,
		"template": cfg.Template.Path,
		"workers":  svc.Workers(),
	}).Info("gatepass listening")

	return serve(ctx, ln, handler, log, cfg.Converter.Timeout+shutdownGrace)
}

// checkServeReady fails fast on a missing template or an unusable static
// directory. A missing converter only warns: the form and viewer still work.
func checkServeReady(cfg *config.Config, log logrus.FieldLogger) error {
	if !fileutil.FileExists(cfg.Template.Path) {
		return fmt.Errorf("%w: %s%s", gatepass.ErrTemplateNotFound, cfg.Template.Path, hints.ForTemplateNotFound(cfg.Template.Path))
	}
	if err := fileutil.DirWritable(cfg.Storage.StaticDir); err != nil {
		return fmt.Errorf("static directory: %w%s", err, hints.ForStaticDir())
	}
	if _, err := gatepass.ResolveConverterBinary(cfg.Converter.Binary); err != nil {
		log.WithError(err).Warn("LibreOffice not found; submissions will fail until it is installed")
	}
	return nil
}

// serve runs an HTTP server on ln until ctx is done, then drains in-flight
// requests for at most grace.
func serve(ctx context.Context, ln net.Listener, h http.Handler, log logrus.FieldLogger, grace time.Duration) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
