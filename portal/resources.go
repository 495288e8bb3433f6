package portal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/jrsteele09/go-studio-portal/internal/utils"
)

// Resource is a bookable room or piece of equipment.
type Resource struct {
	ResourceID  int    `json:"resourceId"`
	TenantID    int    `json:"tenantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Capacity    int    `json:"capacity"`
	CreatedBy   string `json:"createdBy"`
	IsDeleted   *bool  `json:"isDeleted,omitempty"`
}

// numericTenant is the stored tenant id as a number, 0 when unset or not numeric.
func (s *Service) numericTenant(ctx context.Context) int {
	return utils.AtoiOrZero(s.stored(ctx, credentials.KeyTenantID))
}

func tenantParam(tenantID int) url.Values {
	return url.Values{"tenantId": {strconv.Itoa(tenantID)}}
}

func (s *Service) ResourceList(ctx context.Context) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	return s.call(ctx, http.MethodGet, "/api/Resource/ResourceList", q, nil, "Failed to fetch resource list.")
}

// InsertResource creates a resource; any ResourceID on r is ignored.
func (s *Service) InsertResource(ctx context.Context, r Resource) (*Envelope, error) {
	tenantID := s.numericTenant(ctx)
	body := Resource{
		TenantID:    tenantID,
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Capacity:    r.Capacity,
		CreatedBy:   s.stored(ctx, credentials.KeyEmail),
	}
	return s.call(ctx, http.MethodPost, "/api/Resource/InsertResource", tenantParam(tenantID), body, "Failed to add resource.")
}

func (s *Service) UpdateResource(ctx context.Context, r Resource) (*Envelope, error) {
	tenantID := s.numericTenant(ctx)
	body := Resource{
		ResourceID:  r.ResourceID,
		TenantID:    tenantID,
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Capacity:    r.Capacity,
		CreatedBy:   s.stored(ctx, credentials.KeyEmail),
		IsDeleted:   utils.Ptr(false),
	}
	return s.call(ctx, http.MethodPost, "/api/Resource/UpdateResource", tenantParam(tenantID), body, "Failed to update resource.")
}

// DeleteResource removes a resource. An empty updatedBy defaults to the signed-in email.
func (s *Service) DeleteResource(ctx context.Context, resourceID int, updatedBy string) (*Envelope, error) {
	tenantID := s.numericTenant(ctx)
	if updatedBy == "" {
		updatedBy = s.stored(ctx, credentials.KeyEmail)
	}
	body := Fields{"resourceId": resourceID, "updatedBy": updatedBy}
	return s.call(ctx, http.MethodPost, "/api/Resource/DeleteResource", tenantParam(tenantID), body, "Failed to delete resource.")
}
