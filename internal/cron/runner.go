package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
	"github.com/deeper-chain/deeper-archive/internal/utils/services"
)

type (
	RunnerParams struct {
		fx.In
		fxparams.Params
		Lifecycle  fx.Lifecycle
		Manager    services.SystemManager
		Controller controller.Controller
		// Tasks are contributed by packages other than the controller, e.g. the ingestor.
		Tasks []controller.CronTask `group:"tasks"`
	}

	// Runner exposes the jobs scheduled by RegisterRunner.
	Runner struct {
		cron *cron.Cron
		jobs map[string]*Job
	}
)

const (
	subScope    = "cron"
	stopTimeout = time.Second * 5
)

func NewRunner(params RunnerParams) (*Runner, error) {
	logger := log.WithPackage(params.Logger)
	cfg := params.Config
	metrics := params.Metrics.SubScope(subScope)

	runner := &Runner{
		cron: cron.New(),
		jobs: make(map[string]*Job),
	}
	jobCtx, cancel := context.WithCancel(params.Manager.ServiceContext())

	var tasks []controller.CronTask
	tasks = append(tasks, params.Controller.CronTasks()...)
	tasks = append(tasks, params.Tasks...)
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting cron", zap.Int("num_jobs", len(runner.jobs)))
			runner.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping cron")
			timer := time.After(stopTimeout)
			cancel()
			ctx = runner.cron.Stop()
			select {
			case <-ctx.Done():
				logger.Info("stopped cron")
			case <-timer:
				logger.Error("timed out while stopping cron")
			}
			return nil
		},
	})

	for _, task := range tasks {
		taskName := task.Name()
		if !task.Enabled() {
			logger.Warn("task is disabled", zap.String("task", taskName))
			continue
		}

		if _, ok := runner.jobs[taskName]; ok {
			cancel()
			return nil, xerrors.Errorf("duplicate task %v", taskName)
		}

		job, err := NewJob(jobCtx, cfg, logger, metrics, task)
		if err != nil {
			cancel()
			return nil, xerrors.Errorf("failed to create job %v: %w", taskName, err)
		}

		if _, err := runner.cron.AddJob(task.Spec(), job); err != nil {
			cancel()
			return nil, xerrors.Errorf("failed to add job %v: %w", taskName, err)
		}
		runner.jobs[job.Name()] = job
	}

	return runner, nil
}

// RegisterRunner forces the construction of the runner so that its lifecycle hooks are installed.
func RegisterRunner(runner *Runner) {}

// Jobs returns the names of the scheduled tasks.
func (r *Runner) Jobs() []string {
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	return names
}
