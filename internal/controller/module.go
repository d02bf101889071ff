package controller

import (
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/controller/deeper"
	"github.com/deeper-chain/deeper-archive/internal/controller/internal"
)

var Module = fx.Options(
	fx.Provide(NewController),
	internal.Module,
	deeper.Module,
)
