package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ib-77/rxpush/pkg/rx"
)

// Config is the host configuration for a process running rx pipelines.
type Config struct {
	Logging   Logging   `yaml:"logging" mapstructure:"logging"`
	Scheduler Scheduler `yaml:"scheduler" mapstructure:"scheduler"`
	Telemetry Telemetry `yaml:"telemetry" mapstructure:"telemetry"`
	Pipeline  Pipeline  `yaml:"pipeline" mapstructure:"pipeline"`
}

type Logging struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	// Format is json or console.
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
	// Output is stdout, stderr or a file path.
	Output    string `yaml:"output" mapstructure:"output" validate:"required"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

type Scheduler struct {
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" validate:"gte=1"`
}

type Telemetry struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name" validate:"required"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP host:port. Export is disabled when empty.
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// Pipeline holds the tunables of the operators a host wires from config.
type Pipeline struct {
	DebounceDuration    time.Duration `yaml:"debounce_duration" mapstructure:"debounce_duration" validate:"gte=0"`
	DebounceMaxDuration time.Duration `yaml:"debounce_max_duration" mapstructure:"debounce_max_duration" validate:"gte=0"`
	Leading             bool          `yaml:"leading" mapstructure:"leading"`
	Trailing            string        `yaml:"trailing" mapstructure:"trailing" validate:"oneof=off on restart"`
	EmitPendingOnEnd    bool          `yaml:"emit_pending_on_end" mapstructure:"emit_pending_on_end"`
	// MaxConcurrent bounds MergeMap style operators; 0 means unbounded.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`
}

func Default() Config {
	return Config{
		Logging: Logging{
			Level:     "info",
			Format:    "console",
			Output:    "stdout",
			Timestamp: true,
		},
		Scheduler: Scheduler{QueueSize: 64},
		Telemetry: Telemetry{
			ServiceName:    "rxpush",
			ServiceVersion: "1.0.0",
			Environment:    "development",
			Insecure:       true,
			SampleRate:     1.0,
			Interval:       15 * time.Second,
		},
		Pipeline: Pipeline{
			DebounceDuration: 300 * time.Millisecond,
			Trailing:         rx.TrailingOn.String(),
			EmitPendingOnEnd: true,
		},
	}
}

// ApplyDefaults fills zero values that have no meaningful zero setting.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = d.Logging.Output
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)

	if c.Scheduler.QueueSize == 0 {
		c.Scheduler.QueueSize = d.Scheduler.QueueSize
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = d.Telemetry.ServiceName
	}
	if c.Pipeline.Trailing == "" {
		c.Pipeline.Trailing = d.Pipeline.Trailing
	}
	c.Pipeline.Trailing = strings.ToLower(c.Pipeline.Trailing)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TrailingMode maps the configured trailing name onto rx.Trailing.
func (p Pipeline) TrailingMode() rx.Trailing {
	switch p.Trailing {
	case rx.TrailingOff.String():
		return rx.TrailingOff
	case rx.TrailingRestart.String():
		return rx.TrailingRestart
	default:
		return rx.TrailingOn
	}
}

// DebounceOptions returns the configured debounce behaviour as options for
// rx.Debounce and rx.DebounceDuration.
func (p Pipeline) DebounceOptions() []rx.DebounceOption {
	return []rx.DebounceOption{
		rx.WithLeading(p.Leading),
		rx.WithTrailing(p.TrailingMode()),
		rx.WithEmitPendingOnEnd(p.EmitPendingOnEnd),
	}
}

// Concurrency returns MaxConcurrent in the form MergeMap expects.
func (p Pipeline) Concurrency() int {
	if p.MaxConcurrent <= 0 {
		return rx.Unbounded
	}
	return p.MaxConcurrent
}
