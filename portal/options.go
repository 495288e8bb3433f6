package portal

import (
	"net/http"

	"github.com/rs/zerolog"
)

type options struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

type Option func(*options)

// WithHTTPClient sets the client requests are sent with. For a Service its
// Transport becomes the base under the token-injecting transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := options{httpClient: http.DefaultClient, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
