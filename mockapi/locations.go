package mockapi

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// location is stored as the admin form sent it, plus the fields the backend owns.
type location map[string]any

// locationBook keeps each tenant's locations in insertion order.
type locationBook struct {
	byTenant map[string][]location
	nextID   int
	lock     sync.RWMutex
}

func newLocationBook() *locationBook {
	return &locationBook{
		byTenant: make(map[string][]location),
		nextID:   1,
	}
}

func (b *locationBook) insert(tenantID string, fields map[string]any, now time.Time) location {
	b.lock.Lock()
	defer b.lock.Unlock()

	loc := make(location, len(fields)+3)
	for k, v := range fields {
		loc[k] = v
	}
	loc["locationId"] = b.nextID
	loc["tenantId"] = tenantID
	loc["createdAt"] = credentials.FormatExpiry(now)
	b.nextID++

	b.byTenant[tenantID] = append(b.byTenant[tenantID], loc)
	return loc
}

func (b *locationBook) list(tenantID string) []location {
	b.lock.RLock()
	defer b.lock.RUnlock()

	out := make([]location, len(b.byTenant[tenantID]))
	copy(out, b.byTenant[tenantID])
	return out
}
