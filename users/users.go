package users

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RoleType is a studio user's role within its tenant.
type RoleType string

const (
	RoleAdmin  RoleType = "Admin"  // Can manage locations, resources, offers and staff
	RoleStaff  RoleType = "Staff"  // Instructors and front desk
	RoleClient RoleType = "Client" // Customers using the client portal
)

type User struct {
	ID           int       `json:"userId"`              // Numeric id, as the studio backend issues them
	TenantID     string    `json:"tenantId"`            // Tenant the user belongs to
	Email        string    `json:"email"`               // Login email, unique per tenant
	PasswordHash string    `json:"-"`                   // Hashed version of the user's password - never serialize
	FirstName    string    `json:"firstName,omitempty"` // First name of the user
	LastName     string    `json:"lastName,omitempty"`  // Last name of the user
	Role         RoleType  `json:"role"`                // Role within the tenant
	DateJoined   time.Time `json:"-"`                   // Date and time when the user was created
	LastLogin    time.Time `json:"-"`                   // Last successful admin login

	Blocked bool `json:"-"` // Blocked, has the user been blocked from logging in
}

// NewUser builds a user with a hashed password.
func NewUser(tenantID, email, password string, role RoleType) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("[NewUser] email is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[NewUser] %w", err)
	}
	return &User{
		TenantID:     tenantID,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
	}, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword reports whether password matches the user's hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSignIn reports whether the user may obtain a token for tenantID.
func (u *User) CanSignIn(tenantID string) bool {
	return !u.Blocked && u.TenantID == tenantID
}
