package config

import "time"

// Store backends
const (
	StoreBackendFile   = "file"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

type StoreConfig interface {
	GetStoreBackend() string
	GetStorePath() string
	GetRedisURL() string
	GetRedisPrefix() string
	GetSessionID() string
	GetSessionTTL() time.Duration
}

type Store struct {
	Backend     string        `yaml:"backend" env:"STORE_BACKEND" env-default:"file"`
	Path        string        `yaml:"path" env:"STORE_PATH"`
	RedisURL    string        `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	RedisPrefix string        `yaml:"redis_prefix" env:"REDIS_PREFIX" env-default:"portal:session:"`
	SessionID   string        `yaml:"session_id" env:"SESSION_ID" env-default:"default"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"0s"`
}

var _ StoreConfig = Store{}

func (s Store) GetStoreBackend() string {
	return s.Backend
}

// GetStorePath returns the file store location; empty means the default path.
func (s Store) GetStorePath() string {
	return s.Path
}

func (s Store) GetRedisURL() string {
	return s.RedisURL
}

func (s Store) GetRedisPrefix() string {
	return s.RedisPrefix
}

func (s Store) GetSessionID() string {
	return s.SessionID
}

func (s Store) GetSessionTTL() time.Duration {
	return s.SessionTTL
}
