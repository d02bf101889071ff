package activity

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	// baseActivity is embedded by every step of the ingestor.
	// It validates the request and instruments the step under its name.
	baseActivity struct {
		name       string
		logger     *zap.Logger
		validate   *validator.Validate
		instrument instrument.Call
	}

	activityFn func(ctx context.Context) error
)

const (
	ActivityRangeSelector   = "activity.range_selector"
	ActivityStorageJoiner   = "activity.storage_joiner"
	ActivityTransformer     = "activity.transformer"
	ActivityWatermarkWriter = "activity.watermark_writer"

	loggerMsg = "activity.request"
)

func newBaseActivity(name string, logger *zap.Logger, scope tally.Scope) baseActivity {
	logger = log.WithPackage(logger).With(zap.String("activity", name))
	return baseActivity{
		name:       name,
		logger:     logger,
		validate:   validator.New(),
		instrument: instrument.NewCall(scope, name, instrument.WithLogger(logger, loggerMsg), instrument.WithFilter(IsCanceledError)),
	}
}

func (a *baseActivity) executeActivity(ctx context.Context, request any, fn activityFn) error {
	return a.instrument.Instrument(ctx, func(ctx context.Context) error {
		if err := a.validateRequest(request); err != nil {
			return err
		}

		if err := fn(ctx); err != nil {
			return xerrors.Errorf("failed to execute activity (name=%v): %w", a.name, err)
		}

		return nil
	})
}

func (a *baseActivity) validateRequest(request any) error {
	if err := a.validate.Struct(request); err != nil {
		return xerrors.Errorf("invalid activity request (name=%v, request=%+v): %w", a.name, request, err)
	}

	return nil
}

func IsCanceledError(err error) bool {
	return xerrors.Is(err, context.Canceled)
}
