package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"technotes/framework"
	"technotes/framework/container"
	"technotes/framework/httpserver"
	"technotes/framework/mediator"
	"technotes/internal/web/appcore"
	"technotes/internal/web/components"
)

//go:embed static
var embeddedStatic embed.FS

type Options struct {
	Development    bool
	HostURL        string
	StaticDir      string
	HTTPSPort      int
	HSTSMaxAge     time.Duration
	TrustedOrigins []string
	Logger         *slog.Logger
}

// AddComponents registers the route catalog so the composition root can build
// the pipeline from the provider.
func AddComponents(services *container.Collection) *container.Collection {
	return container.AddSingleton(services, func(*container.Provider) ([]framework.RouteHandler[*appcore.Context], error) {
		return Routes(), nil
	})
}

func NewHandler(
	m *mediator.Mediator,
	routes []framework.RouteHandler[*appcore.Context],
	opts Options,
) (http.Handler, error) {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, fmt.Errorf("open embedded static assets: %w", err)
	}

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appcore.NewContext(m, opts.HostURL),
		Handlers:   routes,
		Static: httpserver.StaticMount{
			URLPrefix: "/static/",
			Dir:       opts.StaticDir,
			FS:        staticFS,
		},
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    notFoundPage,
		ErrorPage:       errorPage,
		Development:     opts.Development,
		HSTS: httpserver.HSTSOptions{
			MaxAge:            opts.HSTSMaxAge,
			IncludeSubDomains: true,
		},
		HTTPSPort:      opts.HTTPSPort,
		TrustedOrigins: opts.TrustedOrigins,
		Logger:         opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http handler: %w", err)
	}

	return handler, nil
}

func layout[VM appcore.RootLayoutView](view VM, child templ.Component) templ.Component {
	return components.Layout(view, child)
}

func notFoundPage(notFoundContext framework.NotFoundContext) templ.Component {
	view := appcore.NewNotFoundPageView(notFoundContext.RequestPath)
	return components.Layout(view, components.NotFound(view))
}

func errorPage(errorContext httpserver.ErrorContext) templ.Component {
	view := appcore.NewErrorPageView(errorContext.RequestID, errorContext.RequestPath)
	return components.Layout(view, components.ErrorPage(view))
}
