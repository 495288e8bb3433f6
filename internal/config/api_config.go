package config

import (
	"strings"
	"time"
)

type APIConfig interface {
	GetBaseURL() string
	GetAcquireTimeout() time.Duration
	GetSingleFlight() bool
}

type API struct {
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"https://localhost:7187"`
	// AcquireTimeout bounds a token request. Zero leaves it unbounded.
	AcquireTimeout time.Duration `yaml:"acquire_timeout" env:"ACQUIRE_TIMEOUT" env-default:"0s"`
	SingleFlight   bool          `yaml:"single_flight" env:"SINGLE_FLIGHT" env-default:"false"`
}

var _ APIConfig = API{}

// GetBaseURL returns the backend base URL without a trailing slash
func (a API) GetBaseURL() string {
	return strings.TrimRight(a.BaseURL, "/")
}

func (a API) GetAcquireTimeout() time.Duration {
	return a.AcquireTimeout
}

func (a API) GetSingleFlight() bool {
	return a.SingleFlight
}
