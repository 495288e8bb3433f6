package portal

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// Category groups services and staff, e.g. "Yoga" or "Massage".
type Category struct {
	CategoryID  int    `json:"categoryId,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryBody struct {
	Category
	TenantID  string `json:"tenantId"`
	CreatedBy string `json:"createdBy,omitempty"`
	UpdatedBy string `json:"updatedBy,omitempty"`
}

func (s *Service) ListCategories(ctx context.Context) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	return s.call(ctx, http.MethodGet, "/api/Category/ListCategories", q, nil, "Failed to fetch categories.")
}

// InsertCategory creates a category; any CategoryID on c is ignored.
func (s *Service) InsertCategory(ctx context.Context, c Category) (*Envelope, error) {
	c.CategoryID = 0
	body := categoryBody{Category: c, TenantID: s.tenantID(ctx), CreatedBy: s.stored(ctx, credentials.KeyEmail)}
	return s.call(ctx, http.MethodPost, "/api/Category/InsertCategory", nil, body, "Failed to create category.")
}

func (s *Service) UpdateCategory(ctx context.Context, c Category) (*Envelope, error) {
	body := categoryBody{Category: c, TenantID: s.tenantID(ctx), UpdatedBy: s.stored(ctx, credentials.KeyEmail)}
	return s.call(ctx, http.MethodPost, "/api/Category/UpdateCategory", nil, body, "Failed to update category.")
}

func (s *Service) DeleteCategory(ctx context.Context, categoryID int) (*Envelope, error) {
	body := Fields{
		"categoryId": categoryID,
		"tenantId":   s.tenantID(ctx),
		"updatedBy":  s.stored(ctx, credentials.KeyEmail),
	}
	return s.call(ctx, http.MethodPost, "/api/Category/DeleteCategory", nil, body, "Failed to delete category.")
}
