package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-studio-portal/internal/config"
	"github.com/jrsteele09/go-studio-portal/mockapi"
	"github.com/juju/gnuflag"
	"github.com/rs/zerolog"
)

func main() {
	var configPath string
	flags := gnuflag.NewFlagSet("mockapi", gnuflag.ExitOnError)
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	_ = flags.Parse(true, os.Args[1:])

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	if err := run(configPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("error running mock backend")
	}
	logger.Info().Msg("server stopped")
}

func run(configPath string, logger zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.MustLoad(configPath)
	if level, err := zerolog.ParseLevel(c.GetLogLevel()); err == nil {
		logger = logger.Level(level)
	}
	displayAppname(c.GetAppName() + " Mock")

	handler, err := mockapi.New(c, mockapi.WithLogger(logger))
	if err != nil {
		return err
	}

	server := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(server, logger)
	}()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
