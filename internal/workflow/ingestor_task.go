package workflow

import (
	"context"
	"time"

	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/controller"
)

type (
	// ingestorTask schedules one pipeline batch per tick.
	ingestorTask struct {
		enabled  bool
		spec     string
		ingestor *Ingestor
	}

	IngestorTaskParams struct {
		fx.In
		Ingestor *Ingestor
	}
)

const (
	ingestorTaskName = "ingestor"
)

func NewIngestorTask(params IngestorTaskParams) controller.CronTask {
	cfg := params.Ingestor.config.Cron
	return &ingestorTask{
		enabled:  !cfg.DisableIngestor,
		spec:     cfg.IngestorSpec,
		ingestor: params.Ingestor,
	}
}

func (t *ingestorTask) Name() string {
	return ingestorTaskName
}

func (t *ingestorTask) Spec() string {
	return t.spec
}

// Parallelism is one: two overlapping batches would select the same range.
func (t *ingestorTask) Parallelism() int64 {
	return 1
}

func (t *ingestorTask) Enabled() bool {
	return t.enabled
}

func (t *ingestorTask) DelayStartDuration() time.Duration {
	return 0
}

func (t *ingestorTask) Run(ctx context.Context) error {
	if _, err := t.ingestor.Execute(ctx, t.ingestor.NewRequest()); err != nil {
		return xerrors.Errorf("failed to run ingestor: %w", err)
	}

	return nil
}
