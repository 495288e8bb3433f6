package portal

import (
	"context"
	"net/http"
)

// ClassSessionQuery filters and pages the class session list.
// Zero page values default to page 1 of 10.
type ClassSessionQuery struct {
	Title      string
	PageNumber int
	PageSize   int
}

type classSessionListBody struct {
	TenantID   int    `json:"tenantId"`
	Title      string `json:"title"`
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
}

func (s *Service) GetClassSessionsSimpleList(ctx context.Context, q ClassSessionQuery) (*Envelope, error) {
	body := classSessionListBody{
		TenantID:   s.numericTenant(ctx),
		Title:      q.Title,
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
	}
	if body.PageNumber <= 0 {
		body.PageNumber = 1
	}
	if body.PageSize <= 0 {
		body.PageSize = 10
	}
	return s.call(ctx, http.MethodPost, "/api/ClassSession/GetClassSessionsSimpleList", nil, body, "Failed to fetch class sessions.")
}
