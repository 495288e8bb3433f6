package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/jrsteele09/go-studio-portal/credentials/filestore"
	"github.com/jrsteele09/go-studio-portal/credentials/redisstore"
	"github.com/jrsteele09/go-studio-portal/credentials/storefake"
	"github.com/jrsteele09/go-studio-portal/internal/config"
	"github.com/rs/zerolog"
)

// openStore returns the credential store the config selects and a function
// that releases it.
func openStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (credentials.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.GetStoreBackend() {
	case config.StoreBackendFile, "":
		path := cfg.GetStorePath()
		if path == "" {
			path = filestore.DefaultPath()
		}
		store, err := filestore.New(path, filestore.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.StoreBackendRedis:
		store, err := redisstore.Open(ctx, cfg.GetRedisURL(), cfg.GetSessionID(),
			redisstore.WithPrefix(cfg.GetRedisPrefix()),
			redisstore.WithSessionTTL(cfg.GetSessionTTL()),
			redisstore.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.StoreBackendMemory:
		// Lives only for this invocation.
		return storefake.NewFakeStore(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.GetStoreBackend())
}
