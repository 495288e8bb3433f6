package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-studio-portal/internal/config"
	"github.com/juju/gnuflag"
	"github.com/rs/zerolog"
)

const usage = `usage: portalctl [--config file] [--banner] [-v] <command> [args]

commands:
  tenant <id>                                         select the studio to work with
  login --email <email> --password <pw> [--remember]  sign in as a studio administrator
  token                                               print a valid access token, renewing it if needed
  status                                              show the stored session
  get <path> [name=value ...]                         call a backend endpoint and print the response
  logout                                              forget the signed-in user
`

type globalFlags struct {
	configPath string
	verbose    bool
	banner     bool
}

// parseGlobal reads the flags that precede the command. Long names take a
// double dash; a single dash introduces bundled one-letter flags.
func parseGlobal(args []string) (globalFlags, []string, error) {
	var g globalFlags
	flags := gnuflag.NewFlagSet("portalctl", gnuflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&g.configPath, "config", "", "path to a YAML config file")
	flags.BoolVar(&g.verbose, "v", false, "log requests and renewals")
	flags.BoolVar(&g.banner, "banner", false, "print the application banner")
	if err := flags.Parse(false, args); err != nil {
		return g, nil, err
	}
	return g, flags.Args(), nil
}

func main() {
	g, args, err := parseGlobal(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "portalctl: %v\n\n%s", err, usage)
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	if err := run(g.configPath, g.verbose, g.banner, args, logger); err != nil {
		fmt.Fprintln(os.Stderr, "portalctl:", err)
		os.Exit(1)
	}
}

func run(configPath string, verbose, banner bool, args []string, logger zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	} else if l, err := zerolog.ParseLevel(cfg.GetLogLevel()); err == nil && l > level {
		level = l
	}
	logger = logger.Level(level)

	if banner {
		figure.NewFigure(cfg.GetAppName(), "cybermedium", true).Print()
		fmt.Println()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("failed to close credential store")
		}
	}()

	a := &app{cfg: cfg, store: store, out: os.Stdout, logger: logger}
	return a.run(ctx, args)
}
