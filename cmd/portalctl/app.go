package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-studio-portal/auth"
	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/jrsteele09/go-studio-portal/internal/config"
	"github.com/jrsteele09/go-studio-portal/internal/redact"
	"github.com/jrsteele09/go-studio-portal/portal"
	"github.com/juju/gnuflag"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("invalid arguments, run portalctl --help")

type app struct {
	cfg    config.Config
	store  credentials.Store
	out    io.Writer
	logger zerolog.Logger
}

func (a *app) authService() (*auth.Service, error) {
	opts := []auth.Option{
		auth.WithAcquireTimeout(a.cfg.GetAcquireTimeout()),
		auth.WithLogger(a.logger),
	}
	if a.cfg.GetSingleFlight() {
		opts = append(opts, auth.WithSingleFlight())
	}
	return auth.NewService(a.store, a.cfg.GetBaseURL(), opts...)
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	svc, err := a.authService()
	if err != nil {
		return err
	}

	switch cmd {
	case "tenant":
		return a.tenant(ctx, svc, args)
	case "login":
		return a.login(ctx, svc, args)
	case "token":
		token, err := svc.Token(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, token)
		return nil
	case "status":
		return a.status(ctx, svc)
	case "get":
		return a.get(ctx, svc, args)
	case "logout":
		svc.SignOut(ctx)
		fmt.Fprintln(a.out, "Signed out.")
		return nil
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

func (a *app) tenant(ctx context.Context, svc *auth.Service, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := svc.SwitchTenant(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tenant set to %s.\n", args[0])
	return nil
}

func (a *app) login(ctx context.Context, svc *auth.Service, args []string) error {
	var req auth.AdminLoginRequest
	flags := gnuflag.NewFlagSet("login", gnuflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&req.Email, "email", "", "administrator email")
	flags.StringVar(&req.Password, "password", "", "administrator password")
	flags.BoolVar(&req.RememberMe, "remember", false, "ask the backend to remember this login")
	if err := flags.Parse(true, args); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	resp, err := svc.AdminLogin(ctx, req)
	if err != nil {
		return err
	}
	if resp.Data == nil {
		fmt.Fprintln(a.out, "Signed in.")
		return nil
	}
	name := strings.TrimSpace(resp.Data.FirstName + " " + resp.Data.LastName)
	fmt.Fprintf(a.out, "Signed in as %s (%s).\n", name, resp.Data.Role)
	return nil
}

func (a *app) status(ctx context.Context, svc *auth.Service) error {
	rec := credentials.Load(ctx, a.store)
	tenantID := rec.TenantID
	if tenantID == "" {
		tenantID = credentials.DefaultTenantID + " (default)"
	}
	email := "-"
	if rec.SubjectEmail != "" {
		email = redact.Email(rec.SubjectEmail)
	}
	tokenState := "none"
	if rec.HasToken() {
		tokenState = "valid until " + rec.ExpiresAt
		if svc.Provider().IsExpired(ctx) {
			tokenState = "expired"
		}
	}
	fmt.Fprintf(a.out, "backend: %s\ntenant:  %s\nuser:    %s\ntoken:   %s\n", svc.BaseURL(), tenantID, email, tokenState)
	return nil
}

func (a *app) get(ctx context.Context, svc *auth.Service, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	path, params := args[0], args[1:]
	query := url.Values{}
	for _, p := range params {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return fmt.Errorf("query parameter %q must be name=value: %w", p, errUsage)
		}
		query.Add(name, value)
	}
	if !query.Has("tenantId") {
		query.Set("tenantId", credentials.TenantID(ctx, a.store))
	}

	ps, err := portal.NewService(a.store, svc.BaseURL(), svc.Provider(), portal.WithLogger(a.logger))
	if err != nil {
		return err
	}
	env, err := ps.Get(ctx, path, query)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, strings.TrimSpace(string(env.Raw)))
	return nil
}
