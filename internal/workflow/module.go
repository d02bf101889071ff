package workflow

import (
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/workflow/activity"
)

// TaskGroup collects the cron tasks that live outside the controller.
const TaskGroup = "tasks"

var Module = fx.Options(
	activity.Module,
	fx.Provide(NewIngestor),
	fx.Provide(fx.Annotated{
		Group:  TaskGroup,
		Target: NewIngestorTask,
	}),
)
