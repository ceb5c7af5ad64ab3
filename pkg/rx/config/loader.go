package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// RX_LOGGING_LEVEL or RX_PIPELINE_DEBOUNCE_DURATION.
const DefaultEnvPrefix = "RX"

type loaderConfig struct {
	configFile string
	envFile    string
	envPrefix  string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*loaderConfig)

// WithConfigFile sets the YAML file to read. Without it only defaults and
// the environment apply.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile loads a .env file into the process environment before the
// environment is read. Variables already set are not overwritten.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *loaderConfig) { lc.envPrefix = prefix }
}

// Load builds a Config from defaults, the config file and the environment,
// in increasing order of precedence, then applies defaults and validates.
func Load(opts ...LoaderOption) (*Config, error) {
	lc := loaderConfig{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", lc.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v, Default())

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", lc.configFile, err)
		}
	}

	v.SetEnvPrefix(lc.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return finish(&cfg)
}

// FromYAML parses a YAML document over Default.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// the config file does not mention.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.no_color", d.Logging.NoColor)
	v.SetDefault("logging.timestamp", d.Logging.Timestamp)
	v.SetDefault("logging.caller", d.Logging.Caller)

	v.SetDefault("scheduler.queue_size", d.Scheduler.QueueSize)

	v.SetDefault("telemetry.service_name", d.Telemetry.ServiceName)
	v.SetDefault("telemetry.service_version", d.Telemetry.ServiceVersion)
	v.SetDefault("telemetry.environment", d.Telemetry.Environment)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("telemetry.sample_rate", d.Telemetry.SampleRate)
	v.SetDefault("telemetry.interval", d.Telemetry.Interval)

	v.SetDefault("pipeline.debounce_duration", d.Pipeline.DebounceDuration)
	v.SetDefault("pipeline.debounce_max_duration", d.Pipeline.DebounceMaxDuration)
	v.SetDefault("pipeline.leading", d.Pipeline.Leading)
	v.SetDefault("pipeline.trailing", d.Pipeline.Trailing)
	v.SetDefault("pipeline.emit_pending_on_end", d.Pipeline.EmitPendingOnEnd)
	v.SetDefault("pipeline.max_concurrent", d.Pipeline.MaxConcurrent)
}
