package mediator

import (
	"fmt"

	"technotes/framework/container"
)

// Registration defers handler construction until the provider exists, so
// handlers receive their dependencies through their constructors.
type Registration func(r *Registry, p *container.Provider) error

func Handle[Req interface{}, Resp interface{}](
	factory func(p *container.Provider) (Handler[Req, Resp], error),
) Registration {
	return func(r *Registry, p *container.Provider) error {
		handler, err := factory(p)
		if err != nil {
			return fmt.Errorf("build handler for %s: %w", typeOf[Req](), err)
		}
		return Register(r, handler)
	}
}

type Config struct {
	registrations []Registration
	behaviors     []func(p *container.Provider) (Behavior, error)
}

func (c *Config) RegisterServicesFrom(registrations ...Registration) *Config {
	c.registrations = append(c.registrations, registrations...)
	return c
}

func (c *Config) AddBehavior(factory func(p *container.Provider) (Behavior, error)) *Config {
	c.behaviors = append(c.behaviors, factory)
	return c
}

// AddMediator registers a singleton *Mediator built from the configured
// handler catalog. An empty catalog is valid.
func AddMediator(services *container.Collection, configure func(cfg *Config)) *container.Collection {
	cfg := &Config{}
	if configure != nil {
		configure(cfg)
	}

	return container.AddSingleton(services, func(p *container.Provider) (*Mediator, error) {
		registry := NewRegistry()
		for _, factory := range cfg.behaviors {
			behavior, err := factory(p)
			if err != nil {
				return nil, fmt.Errorf("build mediator behavior: %w", err)
			}
			registry.AddBehavior(behavior)
		}
		for _, register := range cfg.registrations {
			if err := register(registry, p); err != nil {
				return nil, err
			}
		}
		return New(registry), nil
	})
}
