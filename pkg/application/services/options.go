package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces record ids
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// MetricsRecorder observes engine outcomes
type MetricsRecorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	ObserveImport(kind string, created, skipped int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}
func (nopRecorder) ObserveImport(string, int, int)                 {}

type serviceConfig struct {
	now      func() time.Time
	ids      IDGenerator
	logger   *slog.Logger
	metrics  MetricsRecorder
	location *time.Location
}

// Option configures the application services
type Option func(*serviceConfig)

// WithClock sets the clock used for timestamps and for deciding what "today" is
func WithClock(now func() time.Time) Option {
	return func(c *serviceConfig) { c.now = now }
}

// WithIDGenerator sets the id source for new records
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *serviceConfig) { c.ids = ids }
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// WithLocation sets the clinic timezone
func WithLocation(loc *time.Location) Option {
	return func(c *serviceConfig) { c.location = loc }
}

func newServiceConfig(opts []Option) serviceConfig {
	c := serviceConfig{
		now:      time.Now,
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
		metrics:  nopRecorder{},
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// today returns the current clinic calendar date as UTC midnight, the form session dates use
func (c serviceConfig) today() time.Time {
	local := c.now().In(c.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
