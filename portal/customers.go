package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// CustomerFilter narrows customer lists. Empty or "all" means no filter.
type CustomerFilter struct {
	Status string
	State  string
}

func setFilter(q url.Values, name, value string) {
	if value != "" && value != "all" {
		q.Set(name, value)
	}
}

// GetCustomersByCreator lists the customers the signed-in user created.
func (s *Service) GetCustomersByCreator(ctx context.Context, f CustomerFilter) (*Envelope, error) {
	q := url.Values{"createdBy": {s.stored(ctx, credentials.KeyUserID)}}
	setFilter(q, "status", f.Status)
	setFilter(q, "state", f.State)
	return s.call(ctx, http.MethodGet, "/api/User/GetCustomer", q, nil, "Failed to fetch customers.")
}

// GetMyCustomers lists the tenant's customers visible to the signed-in user.
func (s *Service) GetMyCustomers(ctx context.Context, f CustomerFilter) (*Envelope, error) {
	q := url.Values{
		"tenantId": {s.tenantID(ctx)},
		"userRole": {s.role(ctx)},
		"userId":   {s.stored(ctx, credentials.KeyUserID)},
	}
	setFilter(q, "status", f.Status)
	return s.call(ctx, http.MethodGet, "/api/Customer/GetMyCustomers", q, nil, "Failed to fetch customers.")
}

// UpdateCustomer sends customer unchanged; the form carries its own ids.
func (s *Service) UpdateCustomer(ctx context.Context, customer Fields) (*Envelope, error) {
	return s.call(ctx, http.MethodPut, "/api/Customer/UpdateCustomer", nil, customer, "Failed to update customer.")
}
