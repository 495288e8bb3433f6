package config

import (
	"fmt"
	"time"
)

// MockConfig configures the local backend emulator.
type MockConfig interface {
	CorsConfig
	GetPort() string
	GetSigningSecret() string
	GetTokenLifetime() time.Duration
	GetSeedTenantID() string
	GetSeedTenantName() string
	GetSeedAdminEmail() string
	GetSeedAdminPassword() string
}

type Mock struct {
	Cors          `yaml:"cors"`
	Port          string        `yaml:"port" env:"PORT" env-default:"7187"`
	SigningSecret string        `yaml:"signing_secret" env:"SIGNING_SECRET" env-default:"local-dev-secret"`
	TokenLifetime time.Duration `yaml:"token_lifetime" env:"TOKEN_LIFETIME" env-default:"1h"`

	SeedTenantID   string `yaml:"seed_tenant_id" env:"SEED_TENANT_ID" env-default:"1"`
	SeedTenantName string `yaml:"seed_tenant_name" env:"SEED_TENANT_NAME" env-default:"Demo Studio"`
	SeedAdminEmail string `yaml:"seed_admin_email" env:"SEED_ADMIN_EMAIL" env-default:"admin@studio.local"`

	// SeedAdminPassword is generated at startup when empty.
	SeedAdminPassword string `yaml:"seed_admin_password" env:"SEED_ADMIN_PASSWORD"`
}

var _ MockConfig = Mock{}

// GetPort returns the listen address, e.g. ":7187"
func (m Mock) GetPort() string {
	port := m.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (m Mock) GetSigningSecret() string {
	return m.SigningSecret
}

func (m Mock) GetTokenLifetime() time.Duration {
	return m.TokenLifetime
}

func (m Mock) GetSeedTenantID() string {
	return m.SeedTenantID
}

func (m Mock) GetSeedTenantName() string {
	return m.SeedTenantName
}

func (m Mock) GetSeedAdminEmail() string {
	return m.SeedAdminEmail
}

func (m Mock) GetSeedAdminPassword() string {
	return m.SeedAdminPassword
}
