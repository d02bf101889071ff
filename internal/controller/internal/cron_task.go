package internal

import (
	"context"
	"time"
)

type (
	// CronTask is a periodic job run by the cron binary.
	// Tasks are contributed by the controller (e.g. the SLA check) and by the workflow package (the ingestor).
	CronTask interface {
		// Name must be unique across all the registered tasks. It is used as the metric tag.
		Name() string
		// Spec is a robfig/cron schedule, e.g. "@every 6s".
		Spec() string
		// Parallelism bounds the number of concurrent runs. Extra ticks are skipped.
		Parallelism() int64
		Enabled() bool
		DelayStartDuration() time.Duration
		Run(ctx context.Context) error
	}
)
