package schedule

import (
	"context"

	"github.com/rs/zerolog"
)

type OptionKey string

const LoopOptionKey OptionKey = "loop_options"

const DefaultQueueSize = 64

type LoopOptions struct {
	// QueueSize is the initial capacity of the task queue. The queue grows
	// past it; Post never blocks.
	QueueSize int
	Logger    zerolog.Logger
}

type Option func(*LoopOptions)

func WithQueueSize(size int) Option {
	return func(o *LoopOptions) {
		o.QueueSize = size
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *LoopOptions) {
		o.Logger = logger
	}
}

// WithLoopOptions stores options in ctx so code that only sees the context
// can build a loop configured the same way, see LoopFromContext.
func WithLoopOptions(ctx context.Context, opts ...Option) context.Context {
	return context.WithValue(ctx, LoopOptionKey, opts)
}

func GetLoopOptions(ctx context.Context) []Option {
	opts, ok := ctx.Value(LoopOptionKey).([]Option)
	if ok {
		return opts
	}
	return nil
}

func buildLoopOptions(opts []Option) LoopOptions {
	o := LoopOptions{
		QueueSize: DefaultQueueSize,
		Logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.QueueSize < 1 {
		o.QueueSize = DefaultQueueSize
	}
	return o
}
