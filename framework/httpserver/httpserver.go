package httpserver

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
	"technotes/framework"
	"technotes/framework/engine"
)

const (
	defaultHTMLCachePolicy   = "no-cache"
	defaultNoStorePolicy     = "no-store"
	defaultStaticCachePolicy = "public, max-age=3600, s-maxage=3600"
	defaultHealthPath        = "/healthz"
	defaultHealthBody        = "ok"
	defaultStaticPrefix      = "/static/"
	defaultErrorPath         = "/Error"
	defaultHSTSMaxAge        = 30 * 24 * time.Hour

	datastarRequestHeader = "Datastar-Request"
)

type StaticMount struct {
	URLPrefix string
	// Dir takes precedence over FS when both are set.
	Dir string
	FS  fs.FS
}

// CachePolicies sets Cache-Control per response kind. Live patches are left
// to the SSE writer, which marks them no-cache.
type CachePolicies struct {
	HTML   string
	Static string
	Health string
	Error  string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:   defaultHTMLCachePolicy,
		Static: defaultStaticCachePolicy,
		Health: defaultNoStorePolicy,
		Error:  defaultNoStorePolicy,
	}
}

type HSTSOptions struct {
	MaxAge            time.Duration
	IncludeSubDomains bool
	Preload           bool
}

// ErrorContext describes the request that failed when the error page renders.
type ErrorContext struct {
	RequestID   string
	RequestPath string
}

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	Static StaticMount

	CachePolicies CachePolicies

	IsNotFoundError func(err error) bool
	NotFoundPage    func(notFoundContext framework.NotFoundContext) templ.Component
	ErrorPage       func(errorContext ErrorContext) templ.Component
	ErrorPath       string

	// Development swaps the error page and HSTS for plain diagnostics.
	Development    bool
	HSTS           HSTSOptions
	HTTPSPort      int
	TrustedOrigins []string

	Logger *slog.Logger

	HealthPath string
	HealthBody string
}

type server[C interface{}] struct {
	cachePolicies CachePolicies
	notFoundPage  func(notFoundContext framework.NotFoundContext) templ.Component
	errorPage     func(errorContext ErrorContext) templ.Component
	errorPath     string
	development   bool
	logger        *slog.Logger
	healthPath    string
	healthBody    string

	routeEngine *engine.Engine[C]
}

func New[C interface{}](cfg Config[C]) (http.Handler, error) {
	cachePolicies := withDefaultPolicies(cfg.CachePolicies)
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv := &server[C]{
		cachePolicies: cachePolicies,
		notFoundPage:  cfg.NotFoundPage,
		errorPage:     cfg.ErrorPage,
		errorPath:     normalizePath(cfg.ErrorPath, defaultErrorPath),
		development:   cfg.Development,
		logger:        logger,
		healthPath:    normalizePath(cfg.HealthPath, defaultHealthPath),
		healthBody:    healthBody,
	}

	routeEngine, err := engine.New(engine.Config[C]{
		AppContext:        cfg.AppContext,
		Handlers:          cfg.Handlers,
		RenderPage:        srv.renderPage,
		PatchLive:         srv.patchLive,
		IsPartialRequest:  isDatastarRequest,
		IsNotFoundError:   cfg.IsNotFoundError,
		HandleNotFound:    srv.handleNotFound,
		HandleBadRequest:  srv.handleBadRequest,
		HandleServerError: srv.handleServerError,
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}
	srv.routeEngine = routeEngine

	antiforgery, err := Antiforgery(cfg.TrustedOrigins)
	if err != nil {
		return nil, fmt.Errorf("configure antiforgery: %w", err)
	}

	mux := http.NewServeMux()
	if static := staticHandler(cfg.Static); static != nil {
		prefix := normalizeStaticPrefix(cfg.Static.URLPrefix)
		mux.Handle(prefix, withCachePolicy(cachePolicies.Static, http.StripPrefix(prefix, static)))
	}
	mux.HandleFunc("/", srv.handleRoute)

	var handler http.Handler = mux
	handler = antiforgery(handler)
	handler = HTTPSRedirect(cfg.HTTPSPort)(handler)
	if cfg.Development {
		handler = Recover(logger, srv.writeDiagnostics)(handler)
	} else {
		handler = HSTS(cfg.HSTS)(handler)
		handler = Recover(logger, srv.writeErrorPage)(handler)
	}
	handler = RequestLog(logger)(handler)

	return handler, nil
}

func (s *server[C]) handleRoute(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case s.healthPath:
		s.handleHealth(w)
		return
	case s.errorPath:
		s.handleErrorRoute(w, r)
		return
	}

	if s.routeEngine.ServeRoute(w, r) {
		return
	}

	s.handleNotFound(w, r, framework.NotFoundContext{
		RequestPath: r.URL.Path,
		Source:      framework.NotFoundSourceUnmatchedRoute,
	})
}

func (s *server[C]) renderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	return s.renderPageWithStatus(r, w, component, 0, s.cachePolicies.HTML)
}

func (s *server[C]) renderPageWithStatus(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
	statusCode int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	}
	return component.Render(r.Context(), w)
}

func (s *server[C]) patchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(component, datastar.WithSelectorID(selectorID))
}

func (s *server[C]) handleNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	if s.notFoundPage == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}

	component := s.notFoundPage(notFoundContext)
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}
	if err := s.renderPageWithStatus(r, w, component, http.StatusNotFound, s.cachePolicies.Error); err != nil {
		s.handleServerError(w, r, fmt.Errorf("render not found page: %w", err))
	}
}

func (s *server[C]) handleBadRequest(w http.ResponseWriter, message string) {
	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, message, http.StatusBadRequest)
}

func (s *server[C]) handleServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	if s.development {
		s.writeDiagnostics(w, r, err.Error())
		return
	}
	s.writeErrorPage(w, r, "")
}

// writeErrorPage renders the generic error page. The failure details are
// never written to the client.
func (s *server[C]) writeErrorPage(w http.ResponseWriter, r *http.Request, _ string) {
	if s.errorPage == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	component := s.errorPage(ErrorContext{
		RequestID:   RequestIDFromContext(r.Context()),
		RequestPath: r.URL.Path,
	})
	if err := s.renderPageWithStatus(r, w, component, http.StatusInternalServerError, s.cachePolicies.Error); err != nil {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "render error page failed", slog.String("error", err.Error()))
	}
}

func (s *server[C]) writeDiagnostics(w http.ResponseWriter, _ *http.Request, detail string) {
	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, detail, http.StatusInternalServerError)
}

func (s *server[C]) handleErrorRoute(w http.ResponseWriter, r *http.Request) {
	if s.errorPage == nil {
		s.handleNotFound(w, r, framework.NotFoundContext{
			RequestPath: r.URL.Path,
			Source:      framework.NotFoundSourceUnmatchedRoute,
		})
		return
	}

	component := s.errorPage(ErrorContext{
		RequestID:   RequestIDFromContext(r.Context()),
		RequestPath: r.URL.Path,
	})
	if err := s.renderPageWithStatus(r, w, component, 0, s.cachePolicies.Error); err != nil {
		s.handleServerError(w, r, fmt.Errorf("render error page: %w", err))
	}
}

func (s *server[C]) handleHealth(w http.ResponseWriter) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(datastarRequestHeader)), "true")
}

func staticHandler(mount StaticMount) http.Handler {
	if dir := strings.TrimSpace(mount.Dir); dir != "" {
		return http.FileServer(http.Dir(dir))
	}
	if mount.FS != nil {
		return http.FileServer(http.FS(mount.FS))
	}
	return nil
}

func normalizeStaticPrefix(prefix string) string {
	prefix = normalizePath(prefix, defaultStaticPrefix)
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func normalizePath(value string, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return value
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.HTML) == "" {
		policies.HTML = defaults.HTML
	}
	if strings.TrimSpace(policies.Static) == "" {
		policies.Static = defaults.Static
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
