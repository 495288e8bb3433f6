package users

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type UserRepo interface {
	Upsert(user *User) error
	GetByEmail(tenantID, email string) (*User, error)
	GetByID(id int) (*User, error)
	SetBlocked(tenantID, email string, blocked bool) error
	SetLastLogin(id int, at time.Time) error
}
