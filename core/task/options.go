package task

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
)

// Option configures a spawned task.
type Option func(*config)

type config struct {
	name      string
	log       *slog.Logger
	scheduler Scheduler
	metrics   Metrics
	clock     clockwork.Clock
}

// WithName sets the task kind used in logs and metric labels.
// It defaults to the message type name.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithScheduler sets the scheduler the task runs on (default: an unbounded
// package-level scheduler).
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithMetrics sets the metrics sink (default: no-op).
func WithMetrics(m Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock sets the clock used for receive timeouts.
func WithClock(clock clockwork.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		log:       slog.Default(),
		scheduler: defaultScheduler,
		metrics:   NopMetrics(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
