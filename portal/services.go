package portal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// InsertService creates a bookable service from the form fields, stamped
// with the tenant and the signed-in email.
func (s *Service) InsertService(ctx context.Context, service Fields) (*Envelope, error) {
	body := service.with(Fields{"tenantId": s.tenantID(ctx), "createdBy": s.stored(ctx, credentials.KeyEmail)})
	return s.call(ctx, http.MethodPost, "/api/Service/InsertService", nil, body, "Failed to create service.")
}

// UpdateService replaces a service. service must carry its serviceId.
func (s *Service) UpdateService(ctx context.Context, service Fields) (*Envelope, error) {
	body := service.with(Fields{"tenantId": s.tenantID(ctx), "updatedBy": s.stored(ctx, credentials.KeyEmail)})
	return s.call(ctx, http.MethodPost, "/api/Service/UpdateService", nil, body, "Failed to update service.")
}

func (s *Service) GetServicesList(ctx context.Context) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	return s.call(ctx, http.MethodGet, "/api/Service/GetServicesList", q, nil, "Failed to fetch services list.")
}

func (s *Service) GetServiceByID(ctx context.Context, serviceID int) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	q.Set("serviceId", strconv.Itoa(serviceID))
	return s.call(ctx, http.MethodGet, "/api/Service/GetServiceById", q, nil, "Failed to fetch service by id.")
}

func (s *Service) DeleteService(ctx context.Context, serviceID int) (*Envelope, error) {
	body := Fields{
		"serviceId": serviceID,
		"tenantId":  s.tenantID(ctx),
		"updatedBy": s.stored(ctx, credentials.KeyEmail),
	}
	return s.call(ctx, http.MethodPost, "/api/Service/DeleteService", nil, body, "Failed to delete service.")
}

func (s *Service) GetServiceDashboardSummary(ctx context.Context) (*Envelope, error) {
	return s.call(ctx, http.MethodGet, "/api/Service/GetServiceDashboardSummary",
		url.Values{"tenantId": {s.tenantID(ctx)}}, nil, "Failed to fetch service dashboard summary.")
}
