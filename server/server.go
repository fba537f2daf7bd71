// server/server.go
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dalemusser/userform/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/acme/autocert"
)

// certWarmup bounds how long startup waits for the first Let's Encrypt
// certificate before serving anyway.
const certWarmup = 60 * time.Second

// WithShutdownSignals returns a context canceled on SIGINT or SIGTERM.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			if logger != nil {
				logger.Info("shutdown signal received", zap.Stringer("signal", sig))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// ListenAndServeWithContext serves handler over plain HTTP, manual TLS, or
// Let's Encrypt (http-01) depending on cfg, and blocks until ctx is canceled
// or a listener fails. In the TLS modes a second server on :80 redirects to
// HTTPS and, for Let's Encrypt, answers ACME challenges.
func ListenAndServeWithContext(ctx context.Context, cfg *config.CoreConfig, handler http.Handler, logger *zap.Logger) error {
	if cfg == nil {
		return errors.New("server: cfg is nil")
	}
	if handler == nil {
		return errors.New("server: handler is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := newHTTPServer(cfg, handler, logger)

	var (
		ln     net.Listener
		aux    *http.Server
		auxErr chan error // nil in HTTP-only mode, which disables its select case
		err    error
	)
	switch {
	case !cfg.HTTP.UseHTTPS:
		addr := ":" + strconv.Itoa(cfg.HTTP.HTTPPort)
		if ln, err = net.Listen("tcp", addr); err != nil {
			return fmt.Errorf("listen http %s: %w", addr, err)
		}
		logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))

	case cfg.TLS.UseLetsEncrypt:
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.TLS.Domain),
			Cache:      autocert.DirCache(cfg.TLS.LetsEncryptCacheDir),
			Email:      cfg.TLS.LetsEncryptEmail,
		}
		aux = newHTTPServer(cfg, m.HTTPHandler(redirectToHTTPS()), logger)
		aux.Addr = ":80"
		auxErr = startAux(aux, logger)
		if err := waitForCert(ctx, m, cfg.TLS.Domain, certWarmup); err != nil {
			logger.Warn("certificate not ready; first HTTPS requests may fail", zap.Error(err))
		}
		ln, err = listenTLS(cfg, &tls.Config{MinVersion: tls.VersionTLS12, GetCertificate: m.GetCertificate})
		if err != nil {
			_ = aux.Close()
			return err
		}
		logger.Info("HTTPS server (Let's Encrypt) listening",
			zap.String("addr", ln.Addr().String()), zap.String("domain", cfg.TLS.Domain))

	default:
		if err := checkTLSFiles(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
			var perm *permissionError
			if !errors.As(err, &perm) || cfg.Env == "prod" {
				return err
			}
			logger.Warn("TLS key file permissions are too open", zap.Error(err))
		}
		cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("load TLS cert/key: %w", err)
		}
		if ln, err = listenTLS(cfg, &tls.Config{MinVersion: tls.VersionTLS12, Certificates: []tls.Certificate{cert}}); err != nil {
			return err
		}
		aux = newHTTPServer(cfg, redirectToHTTPS(), logger)
		aux.Addr = ":80"
		auxErr = startAux(aux, logger)
		logger.Info("HTTPS server (manual TLS) listening",
			zap.String("addr", ln.Addr().String()), zap.String("cert_file", cfg.TLS.CertFile))
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- ignoreClosed(srv.Serve(ln)) }()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down server")
			// ctx is already done; shutdown gets its own window.
			sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if aux != nil {
				_ = aux.Shutdown(sctx)
			}
			if err := srv.Shutdown(sctx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil

		case err := <-serveErr:
			if aux != nil {
				_ = aux.Close()
			}
			if err != nil {
				return fmt.Errorf("primary server: %w", err)
			}
			return nil

		case err := <-auxErr:
			if err != nil {
				_ = srv.Close()
				return fmt.Errorf("redirect server: %w", err)
			}
			aux, auxErr = nil, nil
		}
	}
}

func newHTTPServer(cfg *config.CoreConfig, h http.Handler, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
	if stdlog, err := zap.NewStdLogAt(logger, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdlog
	}
	return srv
}

func startAux(aux *http.Server, logger *zap.Logger) chan error {
	ch := make(chan error, 1)
	go func() { ch <- ignoreClosed(aux.ListenAndServe()) }()
	logger.Info("redirect server listening", zap.String("addr", aux.Addr))
	return ch
}

func listenTLS(cfg *config.CoreConfig, tlsCfg *tls.Config) (net.Listener, error) {
	addr := ":" + strconv.Itoa(cfg.HTTP.HTTPSPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen https %s: %w", addr, err)
	}
	return tls.NewListener(ln, tlsCfg), nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
