package users_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-studio-portal/users"
	fakeuserrepo "github.com/jrsteele09/go-studio-portal/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestNewUserHashesPassword(t *testing.T) {
	user, err := users.NewUser("42", "Ada@Example.com", "Secret123", users.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.NotEqual(t, "Secret123", user.PasswordHash)
	require.True(t, user.CheckPassword("Secret123"))
	require.False(t, user.CheckPassword("secret123"))
	require.True(t, user.IsAdmin())

	_, err = users.NewUser("42", " ", "pw", users.RoleAdmin)
	require.Error(t, err)
}

func TestCanSignIn(t *testing.T) {
	user := &users.User{TenantID: "42"}
	require.True(t, user.CanSignIn("42"))
	require.False(t, user.CanSignIn("7"))

	user.Blocked = true
	require.False(t, user.CanSignIn("42"))
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	ada := &users.User{TenantID: "42", Email: "ada@example.com"}
	bob := &users.User{TenantID: "42", Email: "bob@example.com"}
	require.NoError(t, repo.Upsert(ada))
	require.NoError(t, repo.Upsert(bob))
	require.Equal(t, 1, ada.ID)
	require.Equal(t, 2, bob.ID)

	// Same email in another tenant is a different user.
	other := &users.User{TenantID: "7", Email: "ada@example.com"}
	require.NoError(t, repo.Upsert(other))
	require.Equal(t, 3, other.ID)

	got, err := repo.GetByEmail("42", "ADA@example.com")
	require.NoError(t, err)
	require.Same(t, ada, got)

	_, err = repo.GetByEmail("99", "ada@example.com")
	require.ErrorIs(t, err, users.ErrNotFound)

	require.NoError(t, repo.SetBlocked("42", "bob@example.com", true))
	got, err = repo.GetByID(2)
	require.NoError(t, err)
	require.True(t, got.Blocked)

	at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastLogin(1, at))
	require.Equal(t, at, ada.LastLogin)
	require.ErrorIs(t, repo.SetLastLogin(99, at), users.ErrNotFound)
}
