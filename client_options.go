package mqttlite

import (
	"crypto/tls"
	"time"

	"golang.org/x/time/rate"
)

// clientOptions holds the behavioral settings of a Client. Connection
// settings live in Config.
type clientOptions struct {
	// Inbound delivery
	handler MessageHandler

	// Observability
	logger  Logger
	metrics Metrics

	// Transport overrides
	dialer    Dialer
	tlsConfig *tls.Config

	// Timeouts
	writeTimeout time.Duration

	// Outbound publish rate limit; nil means unlimited
	publishLimiter *rate.Limiter
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() *clientOptions {
	return &clientOptions{
		logger:  NewNoOpLogger(),
		metrics: NewNoOpMetrics(),
	}
}

// Option configures a Client.
type Option func(*clientOptions)

// WithMessageHandler sets the handler invoked for every inbound PUBLISH.
// Without a handler inbound messages are decoded and dropped.
func WithMessageHandler(handler MessageHandler) Option {
	return func(o *clientOptions) {
		o.handler = handler
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics Metrics) Option {
	return func(o *clientOptions) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithDialer replaces the transport selected by Config.Transport.
// The dialer receives "host:port".
func WithDialer(dialer Dialer) Option {
	return func(o *clientOptions) {
		o.dialer = dialer
	}
}

// WithTLS sets the TLS configuration for the tls, wss and quic transports.
func WithTLS(config *tls.Config) Option {
	return func(o *clientOptions) {
		o.tlsConfig = config
	}
}

// WithWriteTimeout bounds every write to the broker. Zero disables it.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.writeTimeout = d
	}
}

// WithPublishRate limits outbound PUBLISH packets to limit per second with
// the given burst. Publish blocks until the limiter admits the message.
func WithPublishRate(limit rate.Limit, burst int) Option {
	return func(o *clientOptions) {
		if burst < 1 {
			burst = 1
		}
		o.publishLimiter = rate.NewLimiter(limit, burst)
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *clientOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
