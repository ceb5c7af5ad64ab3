package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ib-77/rxpush/pkg/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 64, cfg.Scheduler.QueueSize)
	assert.Equal(t, rx.TrailingOn, cfg.Pipeline.TrailingMode())
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Logging: Logging{Level: "DEBUG"}, Pipeline: Pipeline{Trailing: "Restart"}}
	cfg.ApplyDefaults()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, 64, cfg.Scheduler.QueueSize)
	assert.Equal(t, "rxpush", cfg.Telemetry.ServiceName)
	assert.Equal(t, rx.TrailingRestart, cfg.Pipeline.TrailingMode())
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"zero queue", func(c *Config) { c.Scheduler.QueueSize = 0 }, "QueueSize"},
		{"sample rate above one", func(c *Config) { c.Telemetry.SampleRate = 1.5 }, "SampleRate"},
		{"endpoint without port", func(c *Config) { c.Telemetry.Endpoint = "collector" }, "Endpoint"},
		{"negative debounce", func(c *Config) { c.Pipeline.DebounceDuration = -time.Second }, "DebounceDuration"},
		{"bad trailing", func(c *Config) { c.Pipeline.Trailing = "sometimes" }, "Trailing"},
		{"negative concurrency", func(c *Config) { c.Pipeline.MaxConcurrent = -1 }, "MaxConcurrent"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	cfg, err := FromYAML([]byte(`
logging:
  level: debug
  format: json
telemetry:
  endpoint: localhost:4318
pipeline:
  debounce_duration: 250ms
  debounce_max_duration: 2s
  trailing: restart
  max_concurrent: 3
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.DebounceDuration)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.DebounceMaxDuration)
	assert.Equal(t, rx.TrailingRestart, cfg.Pipeline.TrailingMode())
	assert.Equal(t, 3, cfg.Pipeline.Concurrency())
	assert.True(t, cfg.Pipeline.EmitPendingOnEnd)
}

func TestFromYAMLRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := FromYAML([]byte("logging:\n  format: xml\n"))
	require.Error(t, err)

	_, err = FromYAML([]byte("logging: [\n"))
	require.Error(t, err)
}

func TestDebounceOptions(t *testing.T) {
	t.Parallel()

	p := Pipeline{Leading: true, Trailing: "off"}
	got := rx.DefaultDebounceConfig()
	for _, opt := range p.DebounceOptions() {
		opt(&got)
	}
	assert.Equal(t, rx.DebounceConfig{Leading: true, Trailing: rx.TrailingOff, EmitPendingOnEnd: false}, got)
	assert.Equal(t, rx.Unbounded, p.Concurrency())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, "config.yml", `
logging:
  level: warn
scheduler:
  queue_size: 16
pipeline:
  debounce_duration: 1s
`)
	t.Setenv("RX_LOGGING_LEVEL", "error")
	t.Setenv("RX_PIPELINE_MAX_CONCURRENT", "4")

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 16, cfg.Scheduler.QueueSize)
	assert.Equal(t, time.Second, cfg.Pipeline.DebounceDuration)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrent)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "RXTEST_SCHEDULER_QUEUE_SIZE"
	_, had := os.LookupEnv(key)
	require.False(t, had)
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envFile := writeFile(t, ".env", key+"=8\n")

	cfg, err := Load(WithEnvFile(envFile), WithEnvPrefix("RXTEST"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scheduler.QueueSize)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "missing.yml")))
	require.Error(t, err)

	_, err = Load(WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithEnvPrefix("RXTEST_UNSET"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}
