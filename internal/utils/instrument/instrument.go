package instrument

import (
	"context"
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

type (
	// Call instruments an operation with a latency timer, success/error counters and an optional log line.
	Call interface {
		Instrument(ctx context.Context, operation OperationFn) error
	}

	OperationFn func(ctx context.Context) error

	// Filter returns true if the error should not be counted as a failure, e.g. a not-found error.
	Filter func(err error) bool

	Option func(c *call)

	call struct {
		name      string
		latency   tally.Timer
		success   tally.Counter
		err       tally.Counter
		logger    *zap.Logger
		loggerMsg string
		filter    Filter
	}
)

const (
	latencyMetric = "latency"
	successMetric = "success"
	errorMetric   = "error"
)

var _ Call = (*call)(nil)

func NewCall(scope tally.Scope, name string, opts ...Option) Call {
	scope = scope.SubScope(name)
	c := &call{
		name:    name,
		latency: scope.Timer(latencyMetric),
		success: scope.Counter(successMetric),
		err:     scope.Counter(errorMetric),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithLogger logs the outcome of every call with msg.
func WithLogger(logger *zap.Logger, msg string) Option {
	return func(c *call) {
		c.logger = logger
		c.loggerMsg = msg
	}
}

func WithFilter(filter Filter) Option {
	return func(c *call) {
		c.filter = filter
	}
}

func (c *call) Instrument(ctx context.Context, operation OperationFn) error {
	start := time.Now()
	err := operation(ctx)
	elapsed := time.Since(start)
	c.latency.Record(elapsed)

	if err != nil && (c.filter == nil || !c.filter(err)) {
		c.err.Inc(1)
		if c.logger != nil {
			c.logger.Warn(
				c.loggerMsg,
				zap.String("call", c.name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
		}
		return xerrors.Errorf("%v failed: %w", c.name, err)
	}

	c.success.Inc(1)
	if c.logger != nil {
		c.logger.Info(
			c.loggerMsg,
			zap.String("call", c.name),
			zap.Duration("elapsed", elapsed),
		)
	}
	return err
}
