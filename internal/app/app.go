package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"technotes/framework"
	"technotes/framework/container"
	"technotes/framework/mediator"
	"technotes/internal/application"
	"technotes/internal/config"
	"technotes/internal/web"
	"technotes/internal/web/appcore"
)

const readHeaderTimeout = 5 * time.Second

// App is the composed process: an immutable provider and the HTTP pipeline
// built from it.
type App struct {
	cfg      config.Config
	logger   *slog.Logger
	provider *container.Provider
	handler  http.Handler
}

func New(cfg config.Config, logger *slog.Logger, configure ...func(services *container.Collection)) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if (strings.TrimSpace(cfg.HTTP.TLSCertFile) == "") != (strings.TrimSpace(cfg.HTTP.TLSKeyFile) == "") {
		return nil, errors.New("tls_cert_file and tls_key_file must be set together")
	}

	services := container.NewCollection()
	container.AddInstance(services, cfg)
	container.AddInstance(services, logger)
	web.AddComponents(services)
	application.AddApplication(services)
	for _, fn := range configure {
		fn(services)
	}

	provider, err := services.Build()
	if err != nil {
		return nil, fmt.Errorf("build service provider: %w", err)
	}

	m, err := container.Resolve[*mediator.Mediator](provider)
	if err != nil {
		return nil, fmt.Errorf("resolve mediator: %w", err)
	}
	routes, err := container.Resolve[[]framework.RouteHandler[*appcore.Context]](provider)
	if err != nil {
		return nil, fmt.Errorf("resolve routes: %w", err)
	}

	handler, err := web.NewHandler(m, routes, web.Options{
		Development:    cfg.IsDevelopment(),
		HostURL:        cfg.HTTP.RootURL,
		StaticDir:      cfg.HTTP.StaticDir,
		HTTPSPort:      cfg.HTTP.HTTPSPort,
		HSTSMaxAge:     cfg.HTTP.HSTSMaxAge,
		TrustedOrigins: cfg.HTTP.TrustedOrigins,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build http pipeline: %w", err)
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		handler:  handler,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Provider() *container.Provider {
	return a.provider
}

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.HTTP.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.HTTP.ListenAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve takes ownership of ln and shuts the server down gracefully once ctx
// is done. It terminates TLS itself when a certificate is configured.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelError),
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		tlsEnabled := a.cfg.HTTP.TLSEnabled()
		a.logger.Info("technotes listening",
			slog.String("addr", ln.Addr().String()),
			slog.String("environment", a.cfg.Environment),
			slog.Bool("tls", tlsEnabled),
		)

		var err error
		if tlsEnabled {
			err = srv.ServeTLS(ln, a.cfg.HTTP.TLSCertFile, a.cfg.HTTP.TLSKeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		a.logger.Info("technotes shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
