package fxparams

import (
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/config"
)

type (
	// Params is embedded by the constructors that need the common dependencies.
	Params struct {
		fx.In
		Config  *config.Config
		Logger  *zap.Logger
		Metrics tally.Scope
	}
)
