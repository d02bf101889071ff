package config_test

import (
	"testing"
	"time"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/utils/testapp"
	"github.com/deeper-chain/deeper-archive/internal/utils/testutil"
)

func TestConfigLoad_Override(t *testing.T) {
	require := testutil.Require(t)

	cfg, err := config.New(
		config.WithNetwork(config.NetworkTestnet),
	)
	require.NoError(err)
	require.Equal(config.Blockchain, cfg.Chain.Blockchain)
	require.Equal(config.NetworkTestnet, cfg.Network())
	require.Equal("deeper-testnet", cfg.ConfigName)
}

func TestConfig(t *testing.T) {
	testapp.TestAllConfigs(t, func(t *testing.T, cfg *config.Config) {
		require := testutil.Require(t)

		require.Equal(config.Blockchain, cfg.Chain.Blockchain)
		require.Equal(uint16(42), cfg.Chain.SS58Prefix)
		require.NotZero(cfg.Chain.MinSpecVersion)

		require.NotEmpty(cfg.Database.Source.URL)
		require.Equal(cfg.Database.Source.URL, cfg.Database.Sink.URL)
		require.Equal(cfg.Database.Source.MaxConns, cfg.Database.Sink.MaxConns)
		require.Positive(cfg.Database.BulkInsertMaxRows)

		require.Positive(cfg.Indexer.BatchSize)
		require.Positive(cfg.Indexer.Parallelism)
		require.Positive(cfg.Indexer.BlockParallelism)
		require.False(cfg.Indexer.HaltOnCorruptBlock)

		require.NotEmpty(cfg.Cron.IngestorSpec)
		require.NotEmpty(cfg.Cron.SLASpec)
		require.NotEmpty(cfg.Server.BindAddress)

		if cfg.Env() == config.EnvLocal {
			require.True(cfg.Database.Sink.EnsureSchema)
			require.Equal(uint64(10), cfg.Indexer.BatchSize)
		}

		if cfg.Env() == config.EnvProduction {
			require.Equal(1, cfg.Tier())
			require.Equal(10*time.Minute, cfg.SLA.TimeSinceLastBlock)
		}
	})
}

func TestParseConfigName(t *testing.T) {
	tests := []struct {
		configName string
		network    config.Network
	}{
		{configName: "deeper-mainnet", network: config.NetworkMainnet},
		{configName: "deeper_mainnet", network: config.NetworkMainnet},
		{configName: "deeper-testnet", network: config.NetworkTestnet},
	}
	for _, test := range tests {
		t.Run(test.configName, func(t *testing.T) {
			require := testutil.Require(t)
			network, err := config.ParseConfigName(test.configName)
			require.NoError(err)
			require.Equal(test.network, network)
		})
	}
}

func TestParseConfigName_Invalid(t *testing.T) {
	for _, configName := range []string{"", "deeper", "ethereum-mainnet", "deeper-devnet", "deeper-main-net"} {
		t.Run(configName, func(t *testing.T) {
			require := testutil.Require(t)
			_, err := config.ParseConfigName(configName)
			require.Error(err)
		})
	}
}

func TestConfig_EnvironmentOverride(t *testing.T) {
	require := testutil.Require(t)

	t.Setenv("DEEPER_ARCHIVE_INDEXER_BATCH_SIZE", "42")
	t.Setenv("DEEPER_ARCHIVE_INDEXER_HALT_ON_CORRUPT_BLOCK", "true")
	t.Setenv("DEEPER_ARCHIVE_DATABASE_SINK_URL", "postgres://sink:5432/indexer")

	cfg, err := config.New()
	require.NoError(err)
	require.Equal(uint64(42), cfg.Indexer.BatchSize)
	require.True(cfg.Indexer.HaltOnCorruptBlock)
	require.Equal("postgres://sink:5432/indexer", cfg.Database.Sink.URL)
	require.NotEqual(cfg.Database.Source.URL, cfg.Database.Sink.URL)
}

func TestConfig_ConfigNameFromEnv(t *testing.T) {
	require := testutil.Require(t)

	t.Setenv(config.EnvVarConfigName, "deeper-testnet")
	cfg, err := config.New()
	require.NoError(err)
	require.Equal(config.NetworkTestnet, cfg.Network())
}

func TestConfig_UnknownEnvironment(t *testing.T) {
	require := testutil.Require(t)

	t.Setenv(config.EnvVarEnvironment, "staging")
	_, err := config.New()
	require.Error(err)
}

func TestGetCommonTags(t *testing.T) {
	require := testutil.Require(t)

	cfg, err := config.New(config.WithEnvironment(config.EnvProduction))
	require.NoError(err)
	require.Equal(map[string]string{
		"blockchain": "deeper",
		"network":    "mainnet",
		"tier":       "1",
	}, cfg.GetCommonTags())
}

func TestMaxRowsPerInsert(t *testing.T) {
	require := testutil.Require(t)

	cfg := &config.DatabaseConfig{BulkInsertMaxRows: 20000}
	require.Equal(65535/7, cfg.MaxRowsPerInsert(7))
	require.Equal(20000, cfg.MaxRowsPerInsert(2))

	cfg.BulkInsertMaxRows = 0
	require.Equal(1000, cfg.MaxRowsPerInsert(7))
}
