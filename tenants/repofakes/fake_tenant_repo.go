package tenantrepofakes

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jrsteele09/go-studio-portal/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

type FakeTenantRepo struct {
	tenants map[string]*tenants.Tenant
	nextID  int
	lock    sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants: make(map[string]*tenants.Tenant),
		nextID:  1,
	}
}

// Upsert stores the tenant, assigning the next numeric id when it has none.
func (tr *FakeTenantRepo) Upsert(tenantData *tenants.Tenant) error {
	if tenantData == nil {
		return errors.New("[FakeTenantRepo.Upsert] tenant is nil")
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if tenantData.ID == "" {
		tenantData.ID = strconv.Itoa(tr.nextID)
	}
	if n, err := strconv.Atoi(tenantData.ID); err == nil && n >= tr.nextID {
		tr.nextID = n + 1
	}
	tr.tenants[tenantData.ID] = tenantData
	return nil
}

func (tr *FakeTenantRepo) Get(tenantID string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.tenants[tenantID]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	return t, nil
}

func (tr *FakeTenantRepo) GetByDomain(domain string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	for _, t := range tr.tenants {
		if strings.EqualFold(t.Domain, domain) {
			return t, nil
		}
	}
	return nil, tenants.ErrNotFound
}

func (tr *FakeTenantRepo) List(offset, limit int) ([]*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	list := make([]*tenants.Tenant, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	if offset >= len(list) {
		return nil, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}
