package config

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/config"
	"github.com/deeper-chain/deeper-archive/internal/utils/retry"
)

type (
	Config struct {
		ConfigName string         `mapstructure:"config_name" validate:"required"`
		Chain      ChainConfig    `mapstructure:"chain"`
		Database   DatabaseConfig `mapstructure:"database"`
		Indexer    IndexerConfig  `mapstructure:"indexer"`
		Cron       CronConfig     `mapstructure:"cron"`
		SLA        SLAConfig      `mapstructure:"sla"`
		Server     ServerConfig   `mapstructure:"server"`

		env Env
	}

	ChainConfig struct {
		Blockchain string  `mapstructure:"blockchain" validate:"required"`
		Network    Network `mapstructure:"network" validate:"required"`
		// SS58Prefix selects the textual address format of persisted accounts.
		SS58Prefix uint16 `mapstructure:"ss58_prefix"`
		// Blocks with an older spec version are excluded permanently.
		MinSpecVersion uint32 `mapstructure:"min_spec_version"`
	}

	DatabaseConfig struct {
		Source            PostgresConfig `mapstructure:"source"`
		Sink              PostgresConfig `mapstructure:"sink"`
		BulkInsertMaxRows int            `mapstructure:"bulk_insert_max_rows" validate:"required"`
		Retry             RetryConfig    `mapstructure:"retry"`
	}

	PostgresConfig struct {
		URL            string        `mapstructure:"url"`
		MaxConns       int32         `mapstructure:"max_conns"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
		// EnsureSchema creates the tables on startup.
		EnsureSchema bool `mapstructure:"ensure_schema"`
	}

	RetryConfig struct {
		MaxAttempts     int           `mapstructure:"max_attempts"`
		InitialInterval time.Duration `mapstructure:"initial_interval"`
	}

	IndexerConfig struct {
		BatchSize        uint64 `mapstructure:"batch_size" validate:"required"`
		Parallelism      int    `mapstructure:"parallelism" validate:"required"`
		BlockParallelism int    `mapstructure:"block_parallelism" validate:"required"`
		// HaltOnCorruptBlock stops the watermark below the first block with an unreadable operations payload.
		HaltOnCorruptBlock bool `mapstructure:"halt_on_corrupt_block"`
		// StrictBalanceState skips balance rows whose account record has an unrecognized shape
		// instead of writing the all-zero state.
		StrictBalanceState bool `mapstructure:"strict_balance_state"`
		// AbortOnOperationsError fails the batch when its operations cannot be fetched.
		// By default the batch is indexed without operations and reported as degraded.
		AbortOnOperationsError bool `mapstructure:"abort_on_operations_error"`
	}

	CronConfig struct {
		IngestorSpec    string `mapstructure:"ingestor_spec" validate:"required"`
		SLASpec         string `mapstructure:"sla_spec" validate:"required"`
		DisableIngestor bool   `mapstructure:"disable_ingestor"`
		DisableSLA      bool   `mapstructure:"disable_sla"`
	}

	SLAConfig struct {
		Tier               int           `mapstructure:"tier" validate:"required"` // 1 for high urgency; 2 for low urgency; 3 for work in progress.
		BlockHeightDelta   uint64        `mapstructure:"block_height_delta" validate:"required"`
		TimeSinceLastBlock time.Duration `mapstructure:"time_since_last_block" validate:"required"`
	}

	ServerConfig struct {
		BindAddress string `mapstructure:"bind_address" validate:"required"`
	}

	ConfigOption func(options *configOptions)

	Env string

	Network string

	configOptions struct {
		Network Network `validate:"required"`
		Env     Env     `validate:"required,oneof=production development local"`
	}

	// derivedConfig defines a callback where a config struct can override its fields based on the global config.
	derivedConfig interface {
		DeriveConfig(cfg *Config)
	}
)

const (
	EnvVarConfigName  = "DEEPER_ARCHIVE_CONFIG_NAME"
	EnvVarEnvironment = "DEEPER_ARCHIVE_ENVIRONMENT"
	EnvVarTestType    = "TEST_TYPE"
	EnvVarCI          = "CI"

	envPrefix = "DEEPER_ARCHIVE"

	Blockchain        = "deeper"
	DefaultConfigName = "deeper-mainnet"

	EnvBase        Env = "base"
	EnvLocal       Env = "local"
	EnvProduction  Env = "production"
	EnvDevelopment Env = "development"
	envSecrets     Env = "secrets" // .secrets.yml is merged into local.yml

	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"

	defaultBulkInsertMaxRows = 1000
	// Postgres accepts at most 65535 bind parameters per statement.
	maxBindParameters = 65535

	tagBlockchain = "blockchain"
	tagNetwork    = "network"
	tagTier       = "tier"

	currentFileName = "/internal/config/config.go"
)

var (
	_ derivedConfig = (*DatabaseConfig)(nil)
	_ derivedConfig = (*ChainConfig)(nil)

	envMap = map[string]Env{
		"":                     EnvLocal,
		string(EnvLocal):       EnvLocal,
		string(EnvDevelopment): EnvDevelopment,
		string(EnvProduction):  EnvProduction,
	}

	networks = map[Network]bool{
		NetworkMainnet: true,
		NetworkTestnet: true,
	}
)

func New(opts ...ConfigOption) (*Config, error) {
	validate := validator.New()

	// Get configname, such as "deeper-mainnet"
	configName := getConfigName()

	configOpts, err := getConfigOptions(configName, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to get config options %w", err)
	}

	if err := validate.Struct(configOpts); err != nil {
		return nil, xerrors.Errorf("failed to validate config options: %w", err)
	}

	configReader, err := getConfigData(EnvBase, configOpts.Network)
	if err != nil {
		return nil, xerrors.Errorf("failed to locate config file: %w", err)
	}

	cfg := Config{
		env: configOpts.Env,
	}

	v := viper.New()
	v.SetConfigName(string(EnvBase))
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values.
	// Note that the default values may be overridden by environment variable or config file.
	v.SetDefault("database.bulk_insert_max_rows", defaultBulkInsertMaxRows)
	if cfg.Env() == EnvLocal || cfg.IsTest() {
		v.SetDefault("database.sink.ensure_schema", true)
	}

	// Read the data in base.yml
	if err := v.ReadConfig(configReader); err != nil {
		return nil, xerrors.Errorf("failed to read config: %w", err)
	}

	// Merge in the env-specific config, such as development.yml
	if err := mergeInConfig(v, configOpts, configOpts.Env); err != nil {
		return nil, xerrors.Errorf("failed to merge in %v config: %w", configOpts.Env, err)
	}

	// Merge in .secrets.yml if available.
	if err := mergeInConfig(v, configOpts, envSecrets); err != nil {
		return nil, xerrors.Errorf("failed to merge in %v config: %w", envSecrets, err)
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, xerrors.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.setDerivedConfigs(reflect.ValueOf(&cfg))

	if err := validate.Struct(&cfg); err != nil {
		return nil, xerrors.Errorf("failed to validate config: %w", err)
	}

	return &cfg, nil
}

func getConfigName() string {
	configName, ok := os.LookupEnv(EnvVarConfigName)
	if !ok {
		configName = DefaultConfigName
	}
	return configName
}

func mergeInConfig(v *viper.Viper, configOpts *configOptions, env Env) error {
	// Merge in the env-specific config if available.
	if configReader, err := getConfigData(env, configOpts.Network); err == nil {
		v.SetConfigName(string(env))
		if err := v.MergeConfig(configReader); err != nil {
			return xerrors.Errorf("failed to merge config %v: %w", configOpts.Env, err)
		}
	}
	return nil
}

func (c *Config) Env() Env {
	return c.env
}

func (c *Config) Network() Network {
	return c.Chain.Network
}

func (c *Config) Tier() int {
	return c.SLA.Tier
}

func (c *Config) GetCommonTags() map[string]string {
	return map[string]string{
		tagBlockchain: c.Chain.Blockchain,
		tagNetwork:    string(c.Chain.Network),
		tagTier:       strconv.Itoa(c.Tier()),
	}
}

func (c *Config) IsCI() bool {
	return os.Getenv(EnvVarCI) != ""
}

func (c *Config) IsUnitTest() bool {
	return os.Getenv(EnvVarTestType) == "unit"
}

func (c *Config) IsIntegrationTest() bool {
	return os.Getenv(EnvVarTestType) == "integration"
}

func (c *Config) IsFunctionalTest() bool {
	return os.Getenv(EnvVarTestType) == "functional"
}

func (c *Config) IsTest() bool {
	return os.Getenv(EnvVarTestType) != ""
}

// setDerivedConfigs recursively calls DeriveConfig on all the derivedConfig.
func (c *Config) setDerivedConfigs(v reflect.Value) {
	if v.CanInterface() {
		if oc, ok := v.Interface().(derivedConfig); ok {
			oc.DeriveConfig(c)
			return
		}
	}

	elem := v.Elem()
	for i := 0; i < elem.NumField(); i++ {
		field := elem.Field(i)
		if field.Kind() == reflect.Struct && field.CanAddr() && field.CanInterface() {
			c.setDerivedConfigs(field.Addr())
		}
	}
}

func getConfigOptions(configName string, opts ...ConfigOption) (*configOptions, error) {
	network, err := ParseConfigName(configName)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse config name: %w", err)
	}

	env, ok := envMap[os.Getenv(EnvVarEnvironment)]
	if !ok {
		return nil, xerrors.Errorf("unknown environment %q", os.Getenv(EnvVarEnvironment))
	}

	configOpts := &configOptions{
		Network: network,
		Env:     env,
	}

	for _, opt := range opts {
		opt(configOpts)
	}
	return configOpts, nil
}

// ParseConfigName parses names such as "deeper-mainnet" or "deeper_testnet".
func ParseConfigName(configName string) (Network, error) {
	// Normalize the config name by replacing "-" with "_".
	configName = strings.ReplaceAll(configName, "-", "_")

	splitString := strings.Split(configName, "_")
	if len(splitString) != 2 {
		return "", xerrors.Errorf("config name is invalid: %v", configName)
	}

	if splitString[0] != Blockchain {
		return "", xerrors.Errorf("unsupported blockchain in config name %v", configName)
	}

	network := Network(splitString[1])
	if !networks[network] {
		return "", xerrors.Errorf("unsupported network in config name %v", configName)
	}

	return network, nil
}

func getConfigData(env Env, network Network) (io.Reader, error) {
	if env == envSecrets {
		// .secrets.yml is intentionally not embedded in config.Store.
		// Read it from the file system instead.
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			return nil, xerrors.Errorf("failed to recover the filename information")
		}
		rootDir := strings.TrimSuffix(filename, currentFileName)
		configPath := fmt.Sprintf("%v/config/%v/%v/.secrets.yml", rootDir, Blockchain, network)
		reader, err := os.Open(configPath) // #nosec G304 - potential file inclusion via variable
		if err != nil {
			return nil, xerrors.Errorf("failed to read config file %v: %w", configPath, err)
		}
		return reader, nil
	}

	configPath := fmt.Sprintf("%v/%v/%v.yml", Blockchain, network, env)
	return config.Store.Open(configPath)
}

func WithNetwork(network Network) ConfigOption {
	return func(opts *configOptions) {
		opts.Network = network
	}
}

func WithEnvironment(env Env) ConfigOption {
	return func(opts *configOptions) {
		opts.Env = env
	}
}

func (c *ChainConfig) DeriveConfig(cfg *Config) {
	if c.Blockchain == "" {
		c.Blockchain = Blockchain
	}
}

func (c *DatabaseConfig) DeriveConfig(cfg *Config) {
	// The sink defaults to the archive database itself.
	if c.Sink.URL == "" {
		c.Sink.URL = c.Source.URL
	}

	if c.Sink.MaxConns == 0 {
		c.Sink.MaxConns = c.Source.MaxConns
	}

	if c.Sink.ConnectTimeout == 0 {
		c.Sink.ConnectTimeout = c.Source.ConnectTimeout
	}
}

// MaxRowsPerInsert caps a multi-row insert so that it stays within the bind parameter limit.
func (c *DatabaseConfig) MaxRowsPerInsert(columns int) int {
	rows := c.BulkInsertMaxRows
	if rows <= 0 {
		rows = defaultBulkInsertMaxRows
	}

	if columns > 0 && rows*columns > maxBindParameters {
		rows = maxBindParameters / columns
	}
	return rows
}

func (c *RetryConfig) NewRetry(opts ...retry.Option) retry.Retry {
	if c.MaxAttempts > 0 {
		opts = append(opts, retry.WithMaxAttempts(c.MaxAttempts))
	}

	if c.InitialInterval > 0 {
		opts = append(opts, retry.WithBackoffFactory(func() retry.Backoff {
			backoff := retry.DefaultBackoffFactory()
			backoff.InitialInterval = c.InitialInterval
			return backoff
		}))
	}

	return retry.New(opts...)
}
