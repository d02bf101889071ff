package postgres

import (
	"context"

	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/utils/fxparams"
)

type (
	ClientParams struct {
		fx.In
		fxparams.Params
		Lifecycle fx.Lifecycle
	}

	ClientResult struct {
		fx.Out
		Source Client `name:"source"`
		Sink   Client `name:"sink"`
	}
)

var Module = fx.Options(
	fx.Provide(NewClients),
)

// NewClients connects the archive (source) and fact (sink) databases.
// Both pools are closed when the app stops.
func NewClients(params ClientParams) (ClientResult, error) {
	ctx := context.Background()
	dbConfig := &params.Config.Database

	source, err := NewClient(ctx, "source", &dbConfig.Source, dbConfig, params.Logger, params.Metrics)
	if err != nil {
		return ClientResult{}, xerrors.Errorf("failed to create source client: %w", err)
	}

	sink, err := NewClient(ctx, "sink", &dbConfig.Sink, dbConfig, params.Logger, params.Metrics)
	if err != nil {
		source.Close()
		return ClientResult{}, xerrors.Errorf("failed to create sink client: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !dbConfig.Sink.EnsureSchema {
				return nil
			}
			return EnsureSchema(ctx, sink)
		},
		OnStop: func(ctx context.Context) error {
			sink.Close()
			source.Close()
			return nil
		},
	})

	return ClientResult{
		Source: source,
		Sink:   sink,
	}, nil
}
