package workflow

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	baseWorkflow struct {
		name       string
		config     *config.Config
		logger     *zap.Logger
		metrics    tally.Scope
		validate   *validator.Validate
		instrument instrument.Call
	}

	workflowFn func(ctx context.Context) error
)

const (
	loggerMsg = "workflow.request"
)

func newBaseWorkflow(name string, cfg *config.Config, logger *zap.Logger, scope tally.Scope) baseWorkflow {
	logger = log.WithPackage(logger).With(zap.String("workflow", name))
	return baseWorkflow{
		name:       name,
		config:     cfg,
		logger:     logger,
		metrics:    scope.SubScope(name),
		validate:   validator.New(),
		instrument: instrument.NewCall(scope, name, instrument.WithLogger(logger, loggerMsg), instrument.WithFilter(IsCanceledError)),
	}
}

func (w *baseWorkflow) validateRequest(request any) error {
	if err := w.validate.Struct(request); err != nil {
		return xerrors.Errorf("invalid workflow request (name=%v, request=%+v): %w", w.name, request, err)
	}

	return nil
}

func (w *baseWorkflow) executeWorkflow(ctx context.Context, request any, fn workflowFn) error {
	return w.instrument.Instrument(ctx, func(ctx context.Context) error {
		if err := w.validateRequest(request); err != nil {
			return err
		}

		if err := fn(ctx); err != nil {
			return xerrors.Errorf("failed to execute workflow (name=%v): %w", w.name, err)
		}

		return nil
	})
}

func IsCanceledError(err error) bool {
	return xerrors.Is(err, context.Canceled)
}
