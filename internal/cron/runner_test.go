package cron

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/controller"
	controllermocks "github.com/deeper-chain/deeper-archive/internal/controller/mocks"
	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
	"github.com/deeper-chain/deeper-archive/internal/utils/services"
	"github.com/deeper-chain/deeper-archive/internal/utils/testapp"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

func newNamedTask(ctrl *gomock.Controller, name string, enabled bool) *controllermocks.MockCronTask {
	task := controllermocks.NewMockCronTask(ctrl)
	task.EXPECT().Name().Return(name).AnyTimes()
	task.EXPECT().Spec().Return("@every 1h").AnyTimes()
	task.EXPECT().Enabled().Return(enabled).AnyTimes()
	task.EXPECT().Parallelism().Return(int64(1)).AnyTimes()
	task.EXPECT().DelayStartDuration().Return(time.Duration(0)).AnyTimes()
	return task
}

func TestRunner(t *testing.T) {
	require := testutil.Require(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctl := controllermocks.NewMockController(ctrl)
	ctl.EXPECT().CronTasks().Return([]controller.CronTask{
		newNamedTask(ctrl, "sla", true),
		newNamedTask(ctrl, "disabled", false),
	})

	var runner *Runner
	app := testapp.New(
		t,
		Module,
		fx.Provide(func() controller.Controller { return ctl }),
		fx.Provide(fx.Annotated{
			Group: "tasks",
			Target: func() controller.CronTask {
				return newNamedTask(ctrl, "ingestor", true)
			},
		}),
		fx.Populate(&runner),
	)
	defer app.Close()

	require.ElementsMatch([]string{"sla", "ingestor"}, runner.Jobs())
}

func TestRunner_DuplicateTask(t *testing.T) {
	require := testutil.Require(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctl := controllermocks.NewMockController(ctrl)
	ctl.EXPECT().CronTasks().Return([]controller.CronTask{
		newNamedTask(ctrl, "ingestor", true),
	})

	_, err := NewRunner(RunnerParams{
		Params: fxparams.Params{
			Config:  newTestConfig(t),
			Logger:  zap.NewNop(),
			Metrics: tally.NoopScope,
		},
		Lifecycle:  fxtest.NewLifecycle(t),
		Manager:    services.NewMockSystemManager(),
		Controller: ctl,
		Tasks:      []controller.CronTask{newNamedTask(ctrl, "ingestor", true)},
	})
	require.Error(err)
	require.Contains(err.Error(), "duplicate task")
}

func TestRunner_InvalidSpec(t *testing.T) {
	require := testutil.Require(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	task := controllermocks.NewMockCronTask(ctrl)
	task.EXPECT().Name().Return("broken").AnyTimes()
	task.EXPECT().Spec().Return("not a spec").AnyTimes()
	task.EXPECT().Enabled().Return(true).AnyTimes()
	task.EXPECT().Parallelism().Return(int64(1)).AnyTimes()
	task.EXPECT().DelayStartDuration().Return(time.Duration(0)).AnyTimes()

	ctl := controllermocks.NewMockController(ctrl)
	ctl.EXPECT().CronTasks().Return([]controller.CronTask{task})

	_, err := NewRunner(RunnerParams{
		Params: fxparams.Params{
			Config:  newTestConfig(t),
			Logger:  zap.NewNop(),
			Metrics: tally.NoopScope,
		},
		Lifecycle:  fxtest.NewLifecycle(t),
		Manager:    services.NewMockSystemManager(),
		Controller: ctl,
	})
	require.Error(err)
	require.Contains(err.Error(), "failed to add job broken")
}
