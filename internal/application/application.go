package application

import (
	"errors"
	"log/slog"

	"technotes/framework/container"
	"technotes/framework/mediator"
	"technotes/internal/notes"
)

// AddApplication registers the mediator with every handler this package
// provides, plus the services those handlers depend on. It returns services
// so calls can be chained.
func AddApplication(services *container.Collection) *container.Collection {
	mediator.AddMediator(services, func(cfg *mediator.Config) {
		cfg.RegisterServicesFrom(Handlers()...)
		cfg.AddBehavior(loggingBehavior)
	})
	container.AddSingleton[notes.Service](services, func(*container.Provider) (notes.Service, error) {
		return notes.NewInMemoryService(), nil
	})

	return services
}

// Handlers lists the request handlers defined by this package.
func Handlers() []mediator.Registration {
	return []mediator.Registration{
		mediator.Handle(newGetAllNotesHandler),
		mediator.Handle(newGetNoteHandler),
	}
}

func loggingBehavior(p *container.Provider) (mediator.Behavior, error) {
	logger, err := container.Resolve[*slog.Logger](p)
	if err != nil {
		logger = slog.Default()
	}
	return mediator.LoggingBehavior(logger, mediator.WithExpectedErrors(isExpectedError)), nil
}

// isExpectedError reports outcomes that callers render as regular pages.
func isExpectedError(err error) bool {
	return errors.Is(err, notes.ErrNotFound)
}
