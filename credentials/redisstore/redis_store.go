// Package redisstore keeps the credential record in a Redis hash, one hash per
// session, so that the record outlives the process that wrote it.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultPrefix = "portal:session:"

var _ credentials.Store = (*Store)(nil)

type Store struct {
	rdb        *redis.Client
	prefix     string
	key        string
	sessionTTL time.Duration
	logger     zerolog.Logger
}

type Option func(*Store)

// WithPrefix overrides the key prefix (default "portal:session:").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithSessionTTL expires the whole record after ttl of inactivity. Zero keeps it forever.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.sessionTTL = ttl
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New wraps an existing client. sessionID scopes the record.
func New(rdb *redis.Client, sessionID string, options ...Option) (*Store, error) {
	if rdb == nil {
		return nil, errors.New("[redisstore.New] redis client is required")
	}
	if sessionID == "" {
		return nil, errors.New("[redisstore.New] session id is required")
	}
	s := &Store{
		rdb:    rdb,
		prefix: defaultPrefix,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	s.key = s.prefix + sessionID
	return s, nil
}

// Open connects using a redis:// URL and fails fast when the server is unreachable.
func Open(ctx context.Context, redisURL, sessionID string, options ...Option) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("[redisstore.Open] parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("[redisstore.Open] ping: %w", err)
	}
	return New(rdb, sessionID, options...)
}

func (s *Store) Get(ctx context.Context, key credentials.Key) (string, bool) {
	v, err := s.rdb.HGet(ctx, s.key, string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("field", string(key)).Msg("credential store read failed")
		return "", false
	}
	return v, true
}

func (s *Store) Set(ctx context.Context, key credentials.Key, value string) {
	s.Update(ctx, map[credentials.Key]string{key: value})
}

func (s *Store) Update(ctx context.Context, set map[credentials.Key]string, remove ...credentials.Key) {
	pipe := s.rdb.TxPipeline()
	if len(remove) > 0 {
		fields := make([]string, 0, len(remove))
		for _, k := range remove {
			fields = append(fields, string(k))
		}
		pipe.HDel(ctx, s.key, fields...)
	}
	if len(set) > 0 {
		kv := make(map[string]any, len(set))
		for k, v := range set {
			kv[string(k)] = v
		}
		pipe.HSet(ctx, s.key, kv)
	}
	if s.sessionTTL > 0 {
		pipe.Expire(ctx, s.key, s.sessionTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn().Err(err).Int("set", len(set)).Int("remove", len(remove)).Msg("credential store write dropped")
	}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
