package observe

import (
	"fmt"
	"io"
	"os"

	"github.com/ib-77/rxpush/pkg/rx/config"
	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog.Logger from cfg. The returned closer releases
// the output file when Output is a path and is a no-op otherwise.
func NewLogger(cfg config.Logging) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	output, closer, err := outputWriter(cfg.Output)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			NoColor:    cfg.NoColor,
			TimeFormat: "15:04:05.000",
		}
	}

	zl := zerolog.New(output).Level(level)
	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	return zl, closer, nil
}

func outputWriter(output string) (io.Writer, io.Closer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log output %s: %w", output, err)
	}
	return f, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
