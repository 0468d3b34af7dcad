package appcore

import (
	"errors"

	"technotes/framework/mediator"
	"technotes/internal/notes"
)

var errMediatorUnavailable = errors.New("mediator unavailable")

// Context carries the dependencies page loaders need. It is built once by
// the composition root.
type Context struct {
	mediator *mediator.Mediator
	hostURL  string
}

func NewContext(m *mediator.Mediator, hostURL string) *Context {
	return &Context{mediator: m, hostURL: hostURL}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, notes.ErrNotFound)
}
