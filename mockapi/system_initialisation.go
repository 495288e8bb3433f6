package mockapi

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-studio-portal/tenants"
	"github.com/jrsteele09/go-studio-portal/users"
)

// InitialiseSystem creates the seed tenant and its administrator when they do
// not already exist. A generated administrator password is logged once.
func (s *Server) InitialiseSystem(cfg Config) error {
	tenant, err := s.SeedTenant(&tenants.Tenant{
		ID:   cfg.GetSeedTenantID(),
		Name: cfg.GetSeedTenantName(),
	})
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap tenant: %w", err)
	}

	email := cfg.GetSeedAdminEmail()
	if existing, err := s.repos.Users.GetByEmail(tenant.ID, email); err == nil && existing.IsAdmin() {
		return nil
	}

	password := cfg.GetSeedAdminPassword()
	generated := password == ""
	if generated {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return fmt.Errorf("[Server InitialiseSystem] failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
	}

	if _, err := s.SeedUser(tenant.ID, email, password, users.RoleAdmin, "Studio", "Administrator"); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap admin: %w", err)
	}

	event := s.logger.Info().
		Str("tenantId", tenant.ID).
		Str("tenantName", tenant.Name).
		Str("email", email)
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("seeded studio administrator")
	return nil
}

// SeedTenant stores t unless a tenant with the same id exists, and returns
// the stored tenant.
func (s *Server) SeedTenant(t *tenants.Tenant) (*tenants.Tenant, error) {
	if t.ID != "" {
		existing, err := s.repos.Tenants.Get(t.ID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, tenants.ErrNotFound) {
			return nil, err
		}
	}
	if err := s.repos.Tenants.Upsert(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SeedUser creates or replaces a user with the given password.
func (s *Server) SeedUser(tenantID, email, password string, role users.RoleType, firstName, lastName string) (*users.User, error) {
	user, err := users.NewUser(tenantID, email, password, role)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.DateJoined = s.clock.Now()
	if err := s.repos.Users.Upsert(user); err != nil {
		return nil, err
	}
	return user, nil
}
