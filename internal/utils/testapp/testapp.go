package testapp

import (
	"fmt"
	"testing"

	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/utils/constants"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
	"github.com/deeper-chain/deeper-archive/internal/utils/services"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

type (
	TestApp interface {
		Close()
		Logger() *zap.Logger
		Config() *config.Config
	}

	TestFn func(t *testing.T, cfg *config.Config)

	testAppImpl struct {
		app    *fxtest.App
		logger *zap.Logger
		config *config.Config
	}

	localOnlyOption struct {
		fx.Option
	}

	customManager struct {
		manager services.SystemManager
	}

	managerParams struct {
		fx.In
		CustomManager *customManager `optional:"true"`
	}
)

var (
	// the full list of config names that are shipped in config.Store
	configNames = []string{
		"deeper-mainnet",
		"deeper-testnet",
	}

	EnvsToTest = []config.Env{
		config.EnvLocal,
		config.EnvDevelopment,
		config.EnvProduction,
	}
)

func New(t testing.TB, opts ...fx.Option) TestApp {
	logger, err := log.NewDevelopment()
	if err != nil {
		panic(err)
	}

	var cfg *config.Config
	opts = append(
		opts,
		config.Module,
		fx.NopLogger,
		fx.Provide(newManager),
		fx.Provide(func() testing.TB { return t }),
		fx.Provide(func() *zap.Logger { return logger }),
		fx.Provide(func() tally.Scope { return tally.NewTestScope(constants.ServiceName, nil) }),
		fx.Populate(&cfg),
	)

	app := fxtest.New(t, opts...)
	app.RequireStart()
	return &testAppImpl{
		app:    app,
		logger: logger,
		config: cfg,
	}
}

// WithConfig overrides the default config.
func WithConfig(cfg *config.Config) fx.Option {
	return config.WithCustomConfig(cfg)
}

// WithIntegration runs the test only if $TEST_TYPE is integration.
func WithIntegration() fx.Option {
	return &localOnlyOption{
		Option: fx.Invoke(func(tb testing.TB, cfg *config.Config, logger *zap.Logger) {
			if !cfg.IsIntegrationTest() {
				logger.Warn("skipping integration test", zap.String("test", tb.Name()))
				tb.Skip()
			}
		}),
	}
}

// WithManager injects a real system manager; otherwise, a mock system manager is provided.
func WithManager(manager services.SystemManager) fx.Option {
	return fx.Provide(func() *customManager {
		return &customManager{manager: manager}
	})
}

func newManager(params managerParams) services.SystemManager {
	if params.CustomManager != nil {
		return params.CustomManager.manager
	}

	return services.NewMockSystemManager()
}

func (a *testAppImpl) Close() {
	a.app.RequireStop()
}

func (a *testAppImpl) Logger() *zap.Logger {
	return a.logger
}

func (a *testAppImpl) Config() *config.Config {
	return a.config
}

// TestAllConfigs runs fn against every shipped config name and environment.
func TestAllConfigs(t *testing.T, fn TestFn) {
	for _, configName := range configNames {
		t.Run(configName, func(t *testing.T) {
			for _, env := range EnvsToTest {
				t.Run(string(env), func(t *testing.T) {
					require := testutil.Require(t)
					network, err := config.ParseConfigName(configName)
					require.NoError(err)

					cfg, err := config.New(
						config.WithEnvironment(env),
						config.WithNetwork(network),
					)
					require.NoError(err, fmt.Sprintf("failed to load %v/%v", configName, env))
					require.Equal(env, cfg.Env())
					require.Equal(network, cfg.Network())

					fn(t, cfg)
				})
			}
		})
	}
}
