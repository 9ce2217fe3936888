// Package server assembles the content daemon: storage, path guards,
// audit trail, template lookup, and the HTTP handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"saferoot/internal/audit"
	"saferoot/internal/config"
	"saferoot/internal/content"
	"saferoot/internal/render"
	"saferoot/internal/store"
	"saferoot/pkg/pathguard"
)

const shutdownTimeout = 5 * time.Second

// Config captures the settings for running the daemon.
type Config struct {
	// App is the loaded application configuration.
	App config.Config
	// LogWriter receives the rejection log. Nil means os.Stderr.
	LogWriter io.Writer
	// ExtraSinks receive audit events alongside the log and the store.
	ExtraSinks []audit.Sink
	// Ready, when non-nil, receives the server's listen address once it
	// accepts connections. Used by tests.
	Ready chan<- string
}

// Serve runs the daemon until the context is cancelled or the listener
// fails. Dependency construction errors are fatal and returned as-is;
// none of them are reachable from request input.
func Serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("server: context is nil")
	}
	logWriter := cfg.LogWriter
	if logWriter == nil {
		logWriter = os.Stderr
	}

	st, err := store.Open(cfg.App.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		_ = st.Close()
	}()

	sinks := append([]audit.Sink{audit.NewWriterSink(logWriter), st.RejectionSink()}, cfg.ExtraSinks...)
	trail := audit.New(audit.Config{
		Buffer: cfg.App.Audit.Buffer,
		Sinks:  sinks,
	})
	defer trail.Close()

	uploadsRoot, err := pathguard.New(pathguard.Config{
		Dir:      cfg.App.Storage.UploadsDir,
		Observer: trail.Observer("files"),
	})
	if err != nil {
		return fmt.Errorf("uploads root: %w", err)
	}
	templatesRoot, err := pathguard.New(pathguard.Config{
		Dir:      cfg.App.Templates.Dir,
		Observer: trail.Observer("templates"),
	})
	if err != nil {
		return fmt.Errorf("templates root: %w", err)
	}
	lookup, err := render.NewLookup(render.LookupConfig{
		Root: templatesRoot,
		Policy: pathguard.TokenPolicy{
			MaxLength: cfg.App.Templates.MaxTokenLength,
			Observer:  trail.Observer("templates"),
		},
	})
	if err != nil {
		return fmt.Errorf("template lookup: %w", err)
	}

	handler, err := content.NewHandler(content.Config{
		Store:            st,
		Uploads:          uploadsRoot,
		Templates:        lookup,
		StaticMaxAgeSecs: cfg.App.Server.StaticMaxAgeSecs,
	})
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	return listenAndServe(ctx, cfg.App.Server.ListenAddr, handler, cfg.Ready)
}

// listenAndServe runs the HTTP server with graceful shutdown on context
// cancellation.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, ready chan<- string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server := &http.Server{Handler: handler}
	if ready != nil {
		ready <- listener.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
