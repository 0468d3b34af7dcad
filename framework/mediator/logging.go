package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type loggingOptions struct {
	expected func(err error) bool
}

type LoggingOption func(opts *loggingOptions)

// WithExpectedErrors logs errors matched by isExpected at debug level. They
// are normal outcomes for the caller, such as a lookup that finds nothing.
func WithExpectedErrors(isExpected func(err error) bool) LoggingOption {
	return func(opts *loggingOptions) {
		opts.expected = isExpected
	}
}

func LoggingBehavior(logger *slog.Logger, options ...LoggingOption) Behavior {
	if logger == nil {
		logger = slog.Default()
	}
	opts := loggingOptions{expected: func(error) bool { return false }}
	for _, apply := range options {
		apply(&opts)
	}

	return func(ctx context.Context, req interface{}, next Next) (interface{}, error) {
		started := time.Now()
		requestName := fmt.Sprintf("%T", req)

		resp, err := next(ctx)
		if err != nil {
			level := slog.LevelWarn
			if opts.expected != nil && opts.expected(err) {
				level = slog.LevelDebug
			}
			logger.LogAttrs(ctx, level, "mediator request failed",
				slog.String("request", requestName),
				slog.Duration("elapsed", time.Since(started)),
				slog.String("error", err.Error()),
			)
			return resp, err
		}

		logger.LogAttrs(ctx, slog.LevelDebug, "mediator request handled",
			slog.String("request", requestName),
			slog.Duration("elapsed", time.Since(started)),
		)
		return resp, nil
	}
}
