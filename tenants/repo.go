package tenants

import "errors"

var ErrNotFound = errors.New("tenant not found")

type Repo interface {
	Upsert(tenantData *Tenant) error
	Get(tenantID string) (*Tenant, error)
	GetByDomain(domain string) (*Tenant, error)
	List(offset, limit int) ([]*Tenant, error)
}
