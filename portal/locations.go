package portal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// Fields is a free-form record as entered on an admin form. The service adds
// tenant and audit fields before sending it.
type Fields map[string]any

func (f Fields) with(extra Fields) Fields {
	out := make(Fields, len(f)+len(extra))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (s *Service) tenantQuery(ctx context.Context) (string, url.Values) {
	tenantID := s.tenantID(ctx)
	return tenantID, url.Values{"tenantId": {tenantID}}
}

// actorID is the signed-in user's id for audit fields.
func (s *Service) actorID(ctx context.Context) string {
	if v := s.stored(ctx, credentials.KeyUserID); v != "" {
		return v
	}
	return "admin"
}

func (s *Service) LocationList(ctx context.Context) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	return s.call(ctx, http.MethodGet, "/api/Location/LocationList", q, nil, "Failed to fetch location list.")
}

func (s *Service) InsertLocation(ctx context.Context, location Fields) (*Envelope, error) {
	tenantID, q := s.tenantQuery(ctx)
	body := location.with(Fields{"tenantId": tenantID, "createdBy": s.actorID(ctx)})
	return s.call(ctx, http.MethodPost, "/api/Location/InsertLocation", q, body, "Failed to insert location.")
}

func (s *Service) UpdateLocation(ctx context.Context, location Fields) (*Envelope, error) {
	tenantID, q := s.tenantQuery(ctx)
	body := location.with(Fields{"tenantId": tenantID, "updatedBy": s.actorID(ctx)})
	return s.call(ctx, http.MethodPost, "/api/Location/UpdateLocation", q, body, "Failed to update location.")
}

func (s *Service) DeleteLocation(ctx context.Context, locationID int) (*Envelope, error) {
	tenantID, q := s.tenantQuery(ctx)
	q.Set("locationId", strconv.Itoa(locationID))
	body := Fields{"locationId": locationID, "tenantId": tenantID, "updatedBy": s.actorID(ctx)}
	return s.call(ctx, http.MethodPost, "/api/Location/DeleteLocation", q, body, "Failed to delete location.")
}
