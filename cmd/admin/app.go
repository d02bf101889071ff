package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/controller"
	"github.com/deeper-chain/deeper-archive/internal/scale"
	"github.com/deeper-chain/deeper-archive/internal/storage"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
	"github.com/deeper-chain/deeper-archive/internal/utils/services"
	"github.com/deeper-chain/deeper-archive/internal/workflow"
)

type (
	App struct {
		Manager services.SystemManager
		Config  *config.Config
		Logger  *zap.Logger

		app *fx.App
	}
)

// NewApp connects to the configured databases. The app must be closed by the caller.
func NewApp(opts ...fx.Option) (*App, error) {
	manager := services.NewManager()
	ctx := manager.Context()

	logger, err := log.NewDevelopment()
	if err != nil {
		return nil, xerrors.Errorf("failed to create logger: %w", err)
	}

	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}

	logger.Info(
		"starting app",
		zap.String("env", string(cfg.Env())),
		zap.String("network", string(cfg.Network())),
	)

	opts = append(opts,
		config.Module,
		config.WithCustomConfig(cfg),
		controller.Module,
		scale.Module,
		storage.Module,
		workflow.Module,
		fx.NopLogger,
		fx.Provide(func() *zap.Logger { return logger }),
		fx.Provide(func() tally.Scope { return tally.NoopScope }),
		fx.Provide(func() services.SystemManager { return manager }),
	)
	app := fx.New(opts...)
	if err := app.Start(ctx); err != nil {
		return nil, xerrors.Errorf("failed to start app: %w", err)
	}

	return &App{
		Manager: manager,
		Config:  cfg,
		Logger:  logger,
		app:     app,
	}, nil
}

func newConfig() (*config.Config, error) {
	network, err := config.ParseConfigName(fmt.Sprintf("%v_%v", config.Blockchain, rootFlags.network))
	if err != nil {
		return nil, xerrors.Errorf("failed to parse network %v: %w", rootFlags.network, err)
	}

	cfg, err := config.New(
		config.WithEnvironment(config.Env(rootFlags.env)),
		config.WithNetwork(network),
	)
	if err != nil {
		return nil, xerrors.Errorf("failed to create config: %w", err)
	}

	return cfg, nil
}

func (a *App) Context() context.Context {
	return a.Manager.Context()
}

func (a *App) Close() {
	if a == nil {
		return
	}

	if err := a.app.Stop(a.Context()); err != nil {
		a.Logger.Error("failed to stop app", zap.Error(err))
	}

	a.Manager.Shutdown()
}

func (a *App) Confirm(prompt string) bool {
	msg := color.MagentaString(fmt.Sprintf("[%v::%v] ", a.Config.Env(), a.Config.Network())) +
		color.CyanString(prompt+" (y/N) ")

	fmt.Print(msg)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		a.Logger.Error("failed to read from console", zap.Error(err))
		return false
	}

	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
