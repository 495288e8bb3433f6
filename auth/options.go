package auth

import (
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/rs/zerolog"
)

type options struct {
	httpClient     *http.Client
	acquireTimeout time.Duration
	clock          clock.Clock
	logger         zerolog.Logger
	singleFlight   bool
}

func defaultOptions() options {
	return options{
		httpClient: http.DefaultClient,
		clock:      clock.WallClock,
		logger:     zerolog.Nop(),
	}
}

// Option configures a TokenClient or a Provider. Options that do not apply to
// the component being built are ignored.
type Option func(*options)

// WithHTTPClient sets the client used for backend calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithAcquireTimeout bounds each token request. Zero, the default, leaves
// requests unbounded apart from the caller's own context.
func WithAcquireTimeout(d time.Duration) Option {
	return func(o *options) {
		o.acquireTimeout = d
	}
}

// WithClock sets the clock used to decide token expiry (primarily for testing)
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSingleFlight coalesces concurrent renewals into one token request whose
// result is shared by every waiting caller.
func WithSingleFlight() Option {
	return func(o *options) {
		o.singleFlight = true
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
