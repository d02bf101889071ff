package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/cron"
	"github.com/deeper-chain/deeper-archive/internal/scale"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils"
	"github.com/deeper-chain/deeper-archive/internal/utils/services"
	"github.com/deeper-chain/deeper-archive/internal/utils/tally"
	"github.com/deeper-chain/deeper-archive/internal/workflow"
)

func main() {
	manager := startManager()
	manager.WaitForInterrupt()
}

func startManager(opts ...fx.Option) services.SystemManager {
	manager := services.NewManager()
	logger := manager.Logger()
	ctx := manager.Context()

	opts = append(
		opts,
		config.Module,
		controller.Module,
		cron.Module,
		scale.Module,
		storage.Module,
		workflow.Module,
		utils.Module,
		tally.PrometheusModule,
		fx.NopLogger,
		fx.Provide(func() services.SystemManager { return manager }),
		fx.Provide(func() *zap.Logger { return logger }),
	)
	app := fx.New(opts...)

	if err := app.Start(ctx); err != nil {
		logger.Fatal("failed to start app", zap.Error(err))
	}
	manager.AddPreShutdownHook(func() {
		logger.Info("shutting down cron")
		if err := app.Stop(ctx); err != nil {
			logger.Error("failed to stop app", zap.Error(err))
		}
	})

	logger.Info("started cron")
	return manager
}
