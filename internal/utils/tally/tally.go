package tally

import (
	"context"
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/utils/constants"
)

type (
	MetricParams struct {
		fx.In
		Lifecycle fx.Lifecycle
		Config    *config.Config
		Reporter  tally.CachedStatsReporter `optional:"true"`
	}
)

const (
	reportingInterval = time.Second
)

func NewRootScope(params MetricParams) tally.Scope {
	opts := tally.ScopeOptions{
		Prefix:    constants.ServiceName,
		Tags:      params.Config.GetCommonTags(),
		Separator: "_",
	}

	if params.Reporter != nil {
		opts.CachedReporter = params.Reporter
	} else {
		opts.Reporter = tally.NullStatsReporter
	}

	scope, closer := tally.NewRootScope(opts, reportingInterval)
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return scope
}
