package engine

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"technotes/framework"
)

var (
	ErrRenderRequired = errors.New("render page callback is required")
	ErrNilHandler     = errors.New("route handler is nil")
	errLiveDisabled   = errors.New("live patching is not configured")
)

// Config wires an Engine to its transport. Only RenderPage is required; every
// other hook falls back to a plain net/http response.
type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	RenderPage       func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive        func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	IsPartialRequest func(r *http.Request) bool

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleBadRequest  func(w http.ResponseWriter, message string)
	HandleServerError func(w http.ResponseWriter, r *http.Request, err error)
}

type Engine[C interface{}] struct {
	cfg Config[C]
}

var _ framework.RuntimeContext[struct{}] = (*Engine[struct{}])(nil)

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, ErrRenderRequired
	}
	for idx, handler := range cfg.Handlers {
		if handler == nil {
			return nil, fmt.Errorf("handler %d: %w", idx, ErrNilHandler)
		}
		if validator, ok := handler.(framework.Validator); ok {
			if err := validator.Validate(); err != nil {
				return nil, fmt.Errorf("handler %d: %w", idx, err)
			}
		}
	}

	cfg.Handlers = append([]framework.RouteHandler[C](nil), cfg.Handlers...)
	return &Engine[C]{cfg: withDefaults(cfg)}, nil
}

func withDefaults[C interface{}](cfg Config[C]) Config[C] {
	if cfg.PatchLive == nil {
		cfg.PatchLive = func(http.ResponseWriter, *http.Request, string, templ.Component) error {
			return errLiveDisabled
		}
	}
	if cfg.IsPartialRequest == nil {
		cfg.IsPartialRequest = func(*http.Request) bool { return false }
	}
	if cfg.IsNotFoundError == nil {
		cfg.IsNotFoundError = func(error) bool { return false }
	}
	if cfg.HandleNotFound == nil {
		cfg.HandleNotFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}
	if cfg.HandleBadRequest == nil {
		cfg.HandleBadRequest = func(w http.ResponseWriter, message string) {
			http.Error(w, message, http.StatusBadRequest)
		}
	}
	if cfg.HandleServerError == nil {
		cfg.HandleServerError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
	return cfg
}

// ServeRoute gives live modules the first chance to match, then pages. Pages
// answer GET and HEAD only.
func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	for _, handler := range engine.cfg.Handlers {
		if handler.TryServeLive(engine, w, r) {
			return true
		}
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	for _, handler := range engine.cfg.Handlers {
		if handler.TryServePage(engine, w, r) {
			return true
		}
	}

	return false
}

func (engine *Engine[C]) Len() int {
	return len(engine.cfg.Handlers)
}

func (engine *Engine[C]) AppContext() C {
	return engine.cfg.AppContext
}

func (engine *Engine[C]) IsPartialRequest(r *http.Request) bool {
	return engine.cfg.IsPartialRequest(r)
}

func (engine *Engine[C]) RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	return engine.cfg.RenderPage(r, w, component)
}

func (engine *Engine[C]) PatchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	return engine.cfg.PatchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.cfg.IsNotFoundError(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.cfg.HandleNotFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondBadRequest(w http.ResponseWriter, message string) {
	engine.cfg.HandleBadRequest(w, message)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, r *http.Request, err error) {
	engine.cfg.HandleServerError(w, r, err)
}
