package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"technotes/framework"
)

type testAppContext struct {
	title string
}

type liveState struct {
	Filter string
}

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

func textComponent(value string) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func wrapComponent(tag string, child templ.Component) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "["+tag+"]"); err != nil {
			return err
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "[/"+tag+"]")
		return err
	})
}

func exactPath(pattern string) framework.ParamsParser[framework.EmptyParams] {
	return func(path string) (framework.EmptyParams, bool) {
		return framework.EmptyParams{}, path == pattern
	}
}

func notesPage(
	load framework.PageLoader[*testAppContext, framework.EmptyParams, string],
	layouts ...framework.LayoutRenderer[string],
) framework.PageModule[*testAppContext, framework.EmptyParams, string] {
	return framework.PageModule[*testAppContext, framework.EmptyParams, string]{
		Pattern:     "/notes",
		ParseParams: exactPath("/notes"),
		Load:        load,
		Render:      func(view string) templ.Component { return textComponent(view) },
		Layouts:     layouts,
	}
}

func staticLoad(value string) framework.PageLoader[*testAppContext, framework.EmptyParams, string] {
	return func(context.Context, *testAppContext, *http.Request, framework.EmptyParams) (string, error) {
		return value, nil
	}
}

func captureRender(rendered *string) func(*http.Request, http.ResponseWriter, templ.Component) error {
	return func(_ *http.Request, _ http.ResponseWriter, component templ.Component) error {
		var b bytes.Buffer
		if err := component.Render(context.Background(), &b); err != nil {
			return err
		}
		*rendered = b.String()
		return nil
	}
}

func TestNewRequiresRenderPage(t *testing.T) {
	if _, err := New(Config[*testAppContext]{}); !errors.Is(err, ErrRenderRequired) {
		t.Fatal("expected error without render page callback")
	}
}

func TestServeRoutePageOnly(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{title: "notes"},
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
				Page: notesPage(func(_ context.Context, appCtx *testAppContext, _ *http.Request, _ framework.EmptyParams) (string, error) {
					return appCtx.title, nil
				}),
			},
		},
		RenderPage: captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "notes" {
		t.Fatalf("expected page content, got %q", rendered)
	}

	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil)) {
		t.Fatal("did not expect missing route to match")
	}
	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/notes", nil)) {
		t.Fatal("did not expect a page to answer POST")
	}
	if routeEngine.Len() != 1 {
		t.Fatalf("expected 1 handler, got %d", routeEngine.Len())
	}
}

func TestNewValidatesModules(t *testing.T) {
	_, err := New(Config[*testAppContext]{
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
				Page: framework.PageModule[*testAppContext, framework.EmptyParams, string]{Pattern: "/broken"},
			},
		},
		RenderPage: captureRender(new(string)),
	})
	if err == nil || !strings.Contains(err.Error(), `page "/broken": params parser is required`) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewRejectsNilHandler(t *testing.T) {
	_, err := New(Config[*testAppContext]{
		Handlers:   []framework.RouteHandler[*testAppContext]{nil},
		RenderPage: captureRender(new(string)),
	})
	if !errors.Is(err, ErrNilHandler) {
		t.Fatalf("expected ErrNilHandler, got %v", err)
	}
}

func TestLayoutOrderAndPartialRequests(t *testing.T) {
	var rendered string
	partial := false

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
				Page: notesPage(
					staticLoad("body"),
					func(_ string, child templ.Component) templ.Component { return wrapComponent("outer", child) },
					func(_ string, child templ.Component) templ.Component { return wrapComponent("inner", child) },
				),
			},
		},
		IsPartialRequest: func(*http.Request) bool { return partial },
		RenderPage:       captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes", nil))
	if rendered != "[outer][inner]body[/inner][/outer]" {
		t.Fatalf("unexpected render output: %q", rendered)
	}

	partial = true
	routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes", nil))
	if rendered != "body" {
		t.Fatalf("expected partial body without layout, got %q", rendered)
	}
}

func TestLiveModuleTakesPrecedence(t *testing.T) {
	var patchedSelector string
	var patched string
	var pageRendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageLiveRouteHandler[*testAppContext, framework.EmptyParams, liveState, string]{
				Page: notesPage(staticLoad("page")),
				Live: framework.LiveModule[*testAppContext, framework.EmptyParams, liveState, string]{
					Pattern:     "/notes/live",
					SelectorID:  "notes-content",
					ParseParams: exactPath("/notes/live"),
					ParseState: func(r *http.Request) (liveState, error) {
						if r.URL.Query().Get("filter") == "bad" {
							return liveState{}, errors.New("bad signals")
						}
						return liveState{Filter: r.URL.Query().Get("filter")}, nil
					},
					Load: func(_ context.Context, _ *testAppContext, _ *http.Request, _ framework.EmptyParams, state liveState) (string, error) {
						return "live:" + state.Filter, nil
					},
					Render: func(view string) templ.Component { return textComponent(view) },
				},
			},
		},
		RenderPage: captureRender(&pageRendered),
		PatchLive: func(_ http.ResponseWriter, _ *http.Request, selectorID string, component templ.Component) error {
			var b bytes.Buffer
			if err := component.Render(context.Background(), &b); err != nil {
				return err
			}
			patchedSelector = selectorID
			patched = b.String()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/live?filter=drafts", nil)) {
		t.Fatal("expected live route to match")
	}
	if patchedSelector != "notes-content" || patched != "live:drafts" {
		t.Fatalf("unexpected live patch %q -> %q", patchedSelector, patched)
	}
	if pageRendered != "" {
		t.Fatalf("did not expect page render, got %q", pageRendered)
	}

	rec := httptest.NewRecorder()
	routeEngine.ServeRoute(rec, httptest.NewRequest(http.MethodGet, "/notes/live?filter=bad", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request for invalid state, got %d", rec.Code)
	}

	routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes", nil))
	if pageRendered != "page" {
		t.Fatalf("expected page render, got %q", pageRendered)
	}
}

func TestNotFoundAndServerErrorClassification(t *testing.T) {
	errNotFound := errors.New("not found")
	errBoom := errors.New("boom")

	cases := []struct {
		name            string
		loadErr         error
		wantNotFound    bool
		wantServerError bool
	}{
		{name: "not found", loadErr: errNotFound, wantNotFound: true},
		{name: "server error", loadErr: errBoom, wantServerError: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notFoundCalled := false
			var serverErr error
			var notFoundContext framework.NotFoundContext

			routeEngine, err := New(Config[*testAppContext]{
				AppContext: &testAppContext{},
				Handlers: []framework.RouteHandler[*testAppContext]{
					framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
						Page: notesPage(func(context.Context, *testAppContext, *http.Request, framework.EmptyParams) (string, error) {
							return "", tc.loadErr
						}),
					},
				},
				RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
				IsNotFoundError: func(err error) bool { return errors.Is(err, errNotFound) },
				HandleNotFound: func(_ http.ResponseWriter, _ *http.Request, ctx framework.NotFoundContext) {
					notFoundCalled = true
					notFoundContext = ctx
				},
				HandleServerError: func(_ http.ResponseWriter, _ *http.Request, err error) {
					serverErr = err
				},
			})
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}

			if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes", nil)) {
				t.Fatal("expected route to match")
			}
			if notFoundCalled != tc.wantNotFound {
				t.Fatalf("not found callback: expected %v, got %v", tc.wantNotFound, notFoundCalled)
			}
			if (serverErr != nil) != tc.wantServerError {
				t.Fatalf("server error callback: expected %v, got %v", tc.wantServerError, serverErr)
			}
			if tc.wantNotFound {
				if notFoundContext.Source != framework.NotFoundSourcePageLoad {
					t.Fatalf("expected not-found source %q, got %q", framework.NotFoundSourcePageLoad, notFoundContext.Source)
				}
				if notFoundContext.MatchedRoutePattern != "/notes" {
					t.Fatalf("expected matched route pattern /notes, got %q", notFoundContext.MatchedRoutePattern)
				}
			}
			if tc.wantServerError && !errors.Is(serverErr, errBoom) {
				t.Fatalf("expected wrapped load error, got %v", serverErr)
			}
		})
	}
}
