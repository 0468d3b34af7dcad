// Package mediator routes in-process requests to the single handler
// registered for the request type.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNoHandler        = errors.New("no handler registered")
	ErrDuplicateHandler = errors.New("handler already registered")
)

type Handler[Req interface{}, Resp interface{}] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

type HandlerFunc[Req interface{}, Resp interface{}] func(ctx context.Context, req Req) (Resp, error)

func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

type Next func(ctx context.Context) (interface{}, error)

// Behavior wraps every handler invocation. The first behavior added is the
// outermost one.
type Behavior func(ctx context.Context, req interface{}, next Next) (interface{}, error)

type handlerEntry struct {
	responseType reflect.Type
	invoke       func(ctx context.Context, req interface{}) (interface{}, error)
}

type Registry struct {
	handlers  map[reflect.Type]handlerEntry
	behaviors []Behavior
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[reflect.Type]handlerEntry)}
}

func Register[Req interface{}, Resp interface{}](r *Registry, handler Handler[Req, Resp]) error {
	if handler == nil {
		return fmt.Errorf("register %s: handler is nil", typeOf[Req]())
	}
	if r.handlers == nil {
		r.handlers = make(map[reflect.Type]handlerEntry)
	}

	requestType := typeOf[Req]()
	if _, ok := r.handlers[requestType]; ok {
		return fmt.Errorf("register %s: %w", requestType, ErrDuplicateHandler)
	}

	r.handlers[requestType] = handlerEntry{
		responseType: typeOf[Resp](),
		invoke: func(ctx context.Context, req interface{}) (interface{}, error) {
			return handler.Handle(ctx, req.(Req))
		},
	}
	return nil
}

func (r *Registry) AddBehavior(behavior Behavior) {
	if behavior == nil {
		return
	}
	r.behaviors = append(r.behaviors, behavior)
}

func (r *Registry) Len() int {
	return len(r.handlers)
}

// Mediator is immutable once built and safe for concurrent use.
type Mediator struct {
	handlers  map[reflect.Type]handlerEntry
	behaviors []Behavior
}

func New(r *Registry) *Mediator {
	handlers := make(map[reflect.Type]handlerEntry, len(r.handlers))
	for requestType, entry := range r.handlers {
		handlers[requestType] = entry
	}

	return &Mediator{
		handlers:  handlers,
		behaviors: append([]Behavior(nil), r.behaviors...),
	}
}

func (m *Mediator) HasHandler(requestType reflect.Type) bool {
	if m == nil {
		return false
	}
	_, ok := m.handlers[requestType]
	return ok
}

func Send[Req interface{}, Resp interface{}](ctx context.Context, m *Mediator, req Req) (Resp, error) {
	var zero Resp
	if m == nil {
		return zero, errors.New("mediator is nil")
	}

	requestType := typeOf[Req]()
	entry, ok := m.handlers[requestType]
	if !ok {
		return zero, fmt.Errorf("send %s: %w", requestType, ErrNoHandler)
	}
	if responseType := typeOf[Resp](); entry.responseType != responseType {
		return zero, fmt.Errorf("send %s: handler responds with %s, not %s", requestType, entry.responseType, responseType)
	}

	next := Next(func(ctx context.Context) (interface{}, error) {
		return entry.invoke(ctx, req)
	})
	for idx := len(m.behaviors) - 1; idx >= 0; idx-- {
		behavior := m.behaviors[idx]
		inner := next
		next = func(ctx context.Context) (interface{}, error) {
			return behavior(ctx, req, inner)
		}
	}

	result, err := next(ctx)
	if err != nil {
		return zero, err
	}

	resp, ok := result.(Resp)
	if !ok && result != nil {
		return zero, fmt.Errorf("send %s: unexpected response %T", requestType, result)
	}
	return resp, nil
}

func typeOf[T interface{}]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
