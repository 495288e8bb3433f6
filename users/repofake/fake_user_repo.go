package fakeuserrepo

import (
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-studio-portal/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[int]*users.User
	emailIds map[string]int // tenant/email to user id
	nextID   int
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[int]*users.User),
		emailIds: make(map[string]int),
		nextID:   1,
	}
}

func emailKey(tenantID, email string) string {
	return tenantID + "/" + strings.ToLower(email)
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == 0 {
		if id, ok := ur.emailIds[emailKey(user.TenantID, user.Email)]; ok {
			user.ID = id
		} else {
			user.ID = ur.nextID
			ur.nextID++
		}
	} else if user.ID >= ur.nextID {
		ur.nextID = user.ID + 1
	}
	ur.users[user.ID] = user
	ur.emailIds[emailKey(user.TenantID, user.Email)] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(tenantID, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[emailKey(tenantID, email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	return ur.users[id], nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return user, nil
}

func (ur *FakeUserRepo) SetBlocked(tenantID, email string, blocked bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[emailKey(tenantID, email)]
	if !ok {
		return users.ErrNotFound
	}
	ur.users[id].Blocked = blocked
	return nil
}

func (ur *FakeUserRepo) SetLastLogin(id int, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	user.LastLogin = at
	return nil
}
