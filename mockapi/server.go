// Package mockapi emulates the studio booking backend for local development
// and end-to-end tests.
package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/jrsteele09/go-studio-portal/internal/config"
	"github.com/jrsteele09/go-studio-portal/tenants"
	tenantrepofakes "github.com/jrsteele09/go-studio-portal/tenants/repofakes"
	"github.com/jrsteele09/go-studio-portal/token"
	"github.com/jrsteele09/go-studio-portal/users"
	fakeuserrepo "github.com/jrsteele09/go-studio-portal/users/repofake"
	"github.com/juju/clock"
	"github.com/rs/zerolog"
)

// Config is the subset of the application config the emulator reads.
type Config interface {
	config.EnvConfig
	config.MockConfig
}

// Repos groups the stores the emulator serves from.
type Repos struct {
	Tenants tenants.Repo
	Users   users.UserRepo
}

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	config    Config
	repos     Repos
	issuer    *token.Issuer
	locations *locationBook
	clock     clock.Clock
	logger    zerolog.Logger

	tokenCalls atomic.Int64
}

type Option func(*Server)

// WithClock sets the clock used for token issue and validation.
func WithClock(c clock.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRepos replaces the in-memory tenant and user stores.
func WithRepos(repos Repos) Option {
	return func(s *Server) {
		s.repos = repos
	}
}

// New builds the emulator and seeds the configured tenant and administrator.
func New(cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		config: cfg,
		repos: Repos{
			Tenants: tenantrepofakes.NewFakeTenantRepo(),
			Users:   fakeuserrepo.NewFakeUserRepo(),
		},
		locations: newLocationBook(),
		clock:     clock.WallClock,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	signer, err := token.NewHMACSigner(cfg.GetSigningSecret())
	if err != nil {
		return nil, fmt.Errorf("[mockapi New] failed to create signer: %w", err)
	}
	s.issuer, err = token.NewIssuer(signer, cfg.GetTokenLifetime(), token.WithClock(s.clock))
	if err != nil {
		return nil, fmt.Errorf("[mockapi New] failed to create issuer: %w", err)
	}

	if err := s.InitialiseSystem(cfg); err != nil {
		return nil, fmt.Errorf("[mockapi New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// TokenCalls is the number of requests the token endpoint has received.
func (s *Server) TokenCalls() int64 {
	return s.tokenCalls.Load()
}

// Issuer exposes the token issuer so tests can mint or inspect tokens.
func (s *Server) Issuer() *token.Issuer {
	return s.issuer
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.logger.Debug().Str("method", method).Str("path", path).Msg("route registered")
	}
}
