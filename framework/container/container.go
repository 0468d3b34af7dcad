// Package container holds the service registrations assembled at startup and
// the immutable provider built from them.
//
// A Collection is only meant to live inside the composition root. Once Build
// has produced a Provider, callers resolve what they need and pass the values
// on explicitly; neither type is meant to be stored in request state.
package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	ErrNotRegistered       = errors.New("service not registered")
	ErrCircularDependency  = errors.New("circular dependency")
	errNilCollection       = errors.New("service collection is nil")
	errProviderUnavailable = errors.New("service provider is nil")
)

type Lifetime int

const (
	Singleton Lifetime = iota
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

type factoryFunc func(p *Provider) (interface{}, error)

type registration struct {
	serviceType reflect.Type
	lifetime    Lifetime
	factory     factoryFunc
}

type Collection struct {
	registrations []registration
	index         map[reflect.Type]int
}

func NewCollection() *Collection {
	return &Collection{index: make(map[reflect.Type]int)}
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.registrations)
}

func AddSingleton[T interface{}](c *Collection, factory func(p *Provider) (T, error)) *Collection {
	return add[T](c, Singleton, factory)
}

func AddTransient[T interface{}](c *Collection, factory func(p *Provider) (T, error)) *Collection {
	return add[T](c, Transient, factory)
}

func AddInstance[T interface{}](c *Collection, value T) *Collection {
	return add[T](c, Singleton, func(*Provider) (T, error) { return value, nil })
}

func Contains[T interface{}](c *Collection) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[typeOf[T]()]
	return ok
}

// add registers nothing on a nil collection and returns it unchanged, matching
// the nil handling of Len, Contains and Build.
func add[T interface{}](c *Collection, lifetime Lifetime, factory func(p *Provider) (T, error)) *Collection {
	if c == nil {
		return nil
	}
	if c.index == nil {
		c.index = make(map[reflect.Type]int)
	}

	serviceType := typeOf[T]()
	reg := registration{
		serviceType: serviceType,
		lifetime:    lifetime,
		factory: func(p *Provider) (interface{}, error) {
			return factory(p)
		},
	}

	if idx, ok := c.index[serviceType]; ok {
		c.registrations[idx] = reg
		return c
	}

	c.index[serviceType] = len(c.registrations)
	c.registrations = append(c.registrations, reg)
	return c
}

// Build snapshots the registrations. Later changes to the collection do not
// affect the returned provider.
func (c *Collection) Build() (*Provider, error) {
	if c == nil {
		return nil, errNilCollection
	}

	entries := make(map[reflect.Type]*entry, len(c.registrations))
	for _, reg := range c.registrations {
		entries[reg.serviceType] = &entry{registration: reg}
	}

	return &Provider{entries: entries}, nil
}

type entry struct {
	registration

	mu       sync.Mutex
	built    bool
	instance interface{}
}

// Provider resolves registered services. Factories receive a provider that
// remembers the chain of services being built so cycles are reported instead
// of recursing forever.
type Provider struct {
	entries map[reflect.Type]*entry
	chain   []reflect.Type
}

func Resolve[T interface{}](p *Provider) (T, error) {
	var zero T
	if p == nil {
		return zero, errProviderUnavailable
	}

	value, err := p.resolve(typeOf[T]())
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("resolve %s: factory returned %T", typeOf[T](), value)
	}
	return typed, nil
}

// MustResolve is meant for the composition root, where a missing service is a
// wiring bug.
func MustResolve[T interface{}](p *Provider) T {
	value, err := Resolve[T](p)
	if err != nil {
		panic(err)
	}
	return value
}

func (p *Provider) resolve(serviceType reflect.Type) (interface{}, error) {
	e, ok := p.entries[serviceType]
	if !ok {
		return nil, fmt.Errorf("resolve %s: %w", serviceType, ErrNotRegistered)
	}

	scope, err := p.enter(serviceType)
	if err != nil {
		return nil, err
	}

	if e.lifetime == Transient {
		return scope.create(e)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.built {
		return e.instance, nil
	}

	instance, err := scope.create(e)
	if err != nil {
		return nil, err
	}
	e.instance = instance
	e.built = true
	return instance, nil
}

func (p *Provider) create(e *entry) (interface{}, error) {
	instance, err := e.factory(p)
	if err != nil {
		return nil, fmt.Errorf("create %s %s: %w", e.lifetime, e.serviceType, err)
	}
	return instance, nil
}

func (p *Provider) enter(serviceType reflect.Type) (*Provider, error) {
	for idx, seen := range p.chain {
		if seen != serviceType {
			continue
		}

		names := make([]string, 0, len(p.chain)-idx+1)
		for _, item := range p.chain[idx:] {
			names = append(names, item.String())
		}
		names = append(names, serviceType.String())
		return nil, fmt.Errorf("resolve %s: %w: %s", serviceType, ErrCircularDependency, strings.Join(names, " -> "))
	}

	chain := make([]reflect.Type, len(p.chain), len(p.chain)+1)
	copy(chain, p.chain)
	return &Provider{entries: p.entries, chain: append(chain, serviceType)}, nil
}

func typeOf[T interface{}]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
