package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/golang/glog"

	"github.com/go-drift/uisync/cmd/uisync/internal/config"
	"github.com/go-drift/uisync/cmd/uisync/internal/demo"
	"github.com/go-drift/uisync/pkg/engine"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/transport"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Serve the demo app over websockets",
		Long: `Serve the demo app over websockets.

Every connection gets its own session. With auth.secret (or
UISYNC_AUTH_SECRET) set, clients receive a session token and may reconnect
to their live session within session.reconnectGrace.

The debug server, when enabled, exposes /health, /sessions, /tree and
/cycles as JSON.`,
		Usage: `Usage:
  uisync serve [--dir=<dir>] [--addr=<addr>] [--debug-addr=<addr>]

Options:
  --dir=<dir>          Directory holding uisync.yaml [default: .].
  --addr=<addr>        Listen address, overrides server.addr.
  --debug-addr=<addr>  Debug server address, overrides server.debugAddr.`,
		Run: runServe,
	})
}

func runServe(opts docopt.Opts) error {
	dir, _ := opts.String("--dir")
	cfg, err := config.Resolve(dir)
	if err != nil {
		return err
	}
	if addr, _ := opts.String("--addr"); addr != "" {
		cfg.Addr = addr
	}
	if addr, _ := opts.String("--debug-addr"); addr != "" {
		cfg.DebugAddr = addr
	}

	manager := engine.NewManager(demo.Build, cfg.MaxSessions,
		engine.WithLocale(cfg.Locale),
		engine.WithErrorHandler(&synerrors.LogHandler{Verbose: bool(glog.V(2))}),
	)
	defer manager.CloseAll()

	var handlerOpts []transport.Option
	if cfg.Secret != "" {
		tokens, err := transport.NewTokenIssuer(cfg.Secret, cfg.TokenTTL)
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts,
			transport.WithTokens(tokens),
			transport.WithReconnectGrace(cfg.ReconnectGrace))
	}
	handler := transport.NewHandler(manager, handlerOpts...)
	defer handler.Close()

	if cfg.DebugAddr != "" {
		debug := engine.NewDebugServer(manager)
		addr, err := debug.Start(cfg.DebugAddr)
		if err != nil {
			return fmt.Errorf("debug server: %w", err)
		}
		defer debug.Stop()
		glog.Infof("debug server listening on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		glog.Infof("%s listening on %s%s", cfg.AppName, cfg.Addr, cfg.Path)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	glog.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
