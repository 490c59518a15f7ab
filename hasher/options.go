package hasher

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DecodeMode decides what happens to malformed percent-encoded input.
type DecodeMode int

const (
	// DecodeStrict fails the calling operation with ErrMalformedHash.
	DecodeStrict DecodeMode = iota
	// DecodeLiteral keeps the undecodable value as a literal string.
	DecodeLiteral
)

func (m DecodeMode) String() string {
	switch m {
	case DecodeStrict:
		return "strict"
	case DecodeLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

type options struct {
	scheduler  Scheduler
	interval   time.Duration
	logger     *slog.Logger
	registerer prometheus.Registerer
	namespace  string
	decodeMode DecodeMode
}

type Option func(*options)

func defaultOptions() options {
	return options{
		interval:   DefaultPollInterval,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		namespace:  "hasher",
		decodeMode: DecodeStrict,
	}
}

// WithScheduler sets the scheduler used by the polling strategies. Hosts that
// implement Scheduler are used when this is not set.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics registers the engine counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func WithMetricsNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

func WithDecodeMode(m DecodeMode) Option {
	return func(o *options) {
		o.decodeMode = m
	}
}
