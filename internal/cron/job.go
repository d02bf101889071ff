package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/utils/instrument"
)

type (
	// Job adapts a CronTask to robfig/cron.
	// A tick that finds every slot busy is dropped, so a slow ingestor batch never queues up behind itself.
	Job struct {
		ctx        context.Context
		name       string
		logger     *zap.Logger
		instrument instrument.Call
		skipped    tally.Counter
		task       controller.CronTask
		slots      *semaphore.Weighted
	}
)

const (
	jobScope        = "job"
	taskTag         = "task"
	loggerMsg       = "cron.job"
	skippedCounter  = "skipped"
	localStartDelay = 10 * time.Second
)

var _ cron.Job = (*Job)(nil)

func NewJob(ctx context.Context, cfg *config.Config, logger *zap.Logger, scope tally.Scope, task controller.CronTask) (*Job, error) {
	parallelism := task.Parallelism()
	if parallelism <= 0 {
		return nil, xerrors.Errorf("invalid parallelism: %v", parallelism)
	}

	// Every slot is taken until the start delay elapses.
	slots := semaphore.NewWeighted(parallelism)
	if err := slots.Acquire(ctx, parallelism); err != nil {
		return nil, xerrors.Errorf("failed to acquire the semaphore: %w", err)
	}

	name := task.Name()
	logger = logger.With(zap.String(taskTag, name))
	scope = scope.Tagged(map[string]string{taskTag: name})

	job := &Job{
		ctx:        ctx,
		name:       name,
		logger:     logger,
		instrument: instrument.NewCall(scope, jobScope, instrument.WithLogger(logger, loggerMsg)),
		skipped:    scope.SubScope(jobScope).Counter(skippedCounter),
		task:       task,
		slots:      slots,
	}

	go job.releaseAfter(startDelay(cfg, task), parallelism)
	return job, nil
}

// Name returns the name of the wrapped task.
func (j *Job) Name() string {
	return j.name
}

func (j *Job) Run() {
	if !j.slots.TryAcquire(1) {
		j.skipped.Inc(1)
		j.logger.Info("skipped task")
		return
	}
	defer j.slots.Release(1)

	_ = j.instrument.Instrument(j.ctx, func(ctx context.Context) error {
		return j.task.Run(ctx)
	})
}

// releaseAfter opens the slots once delay has elapsed. The slots stay closed if the runner stops first.
func (j *Job) releaseAfter(delay time.Duration, parallelism int64) {
	j.logger.Info("delay start", zap.Duration("duration", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		j.slots.Release(parallelism)
	case <-j.ctx.Done():
	}
}

func startDelay(cfg *config.Config, task controller.CronTask) time.Duration {
	// Local runs wait for the source database container to come up.
	if cfg.Env() == config.EnvLocal {
		return localStartDelay
	}
	return task.DelayStartDuration()
}
