package crontask

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(fx.Annotated{
		Group:  "deeper",
		Target: NewSLATask,
	}),
)
