package portal

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetDashboardData returns the dashboard payload as the backend sent it.
func (s *Service) GetDashboardData(ctx context.Context) (json.RawMessage, error) {
	_, q := s.tenantQuery(ctx)
	env, err := s.call(ctx, http.MethodGet, "/api/Dashboard/GetDashboardData", q, nil, "Failed to load dashboard data")
	if err != nil {
		return nil, err
	}
	return env.Raw, nil
}
