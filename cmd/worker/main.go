package main

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/scale"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils"
	"github.com/deeper-chain/deeper-archive/internal/utils/services"
	"github.com/deeper-chain/deeper-archive/internal/workflow"
)

// The worker runs exactly one batch and exits. Scheduling is left to the caller.
func main() {
	manager := services.NewManager()
	go manager.WaitForInterrupt()

	if err := runBatch(manager); err != nil {
		manager.Logger().Error("batch failed", zap.Error(err))
		manager.Shutdown()
		os.Exit(1)
	}

	manager.Shutdown()
}

func runBatch(manager services.SystemManager, opts ...fx.Option) error {
	logger := manager.Logger()
	ctx := manager.Context()

	var ingestor *workflow.Ingestor
	opts = append(
		opts,
		config.Module,
		controller.Module,
		scale.Module,
		storage.Module,
		workflow.Module,
		utils.Module,
		fx.NopLogger,
		fx.Provide(func() services.SystemManager { return manager }),
		fx.Provide(func() *zap.Logger { return logger }),
		fx.Populate(&ingestor),
	)
	app := fx.New(opts...)

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, fx.DefaultTimeout)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			logger.Error("failed to stop app", zap.Error(err))
		}
	}()

	result, err := ingestor.Execute(manager.ServiceContext(), ingestor.NewRequest())
	if err != nil {
		return err
	}

	logger.Info(
		"finished batch",
		zap.Uint64("from", result.From),
		zap.Uint64("to", result.To),
		zap.Uint64("watermark", result.Watermark),
		zap.Bool("halted", result.Halted),
	)
	return nil
}
