package activity

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewRangeSelector),
	fx.Provide(NewStorageJoiner),
	fx.Provide(NewTransformer),
	fx.Provide(NewWatermarkWriter),
)
