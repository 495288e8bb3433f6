package portal

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-studio-portal/credentials"
)

// Offer is a discount or coupon definition.
type Offer struct {
	OfferID         int     `json:"offerId"`
	TenantID        int     `json:"tenantId"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	OfferCode       string  `json:"offerCode"`
	DiscountAmount  float64 `json:"discountAmount"`
	DiscountPercent float64 `json:"discountPercent"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	ApplicableTo    string  `json:"applicableTo"`
	ServiceID       int     `json:"serviceId"`
	CategoryID      int     `json:"categoryId"`
	MaxUsage        int     `json:"maxUsage"`
	PerUserLimit    int     `json:"perUserLimit"`
	UpdatedBy       string  `json:"updatedBy"`
	IsActive        bool    `json:"isActive"`
}

func (s *Service) ListOffers(ctx context.Context) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	return s.call(ctx, http.MethodGet, "/api/Offer/ListOffers", q, nil, "Failed to fetch offers")
}

// InsertOffer sends the form fields as entered, stamped with the tenant and creator.
func (s *Service) InsertOffer(ctx context.Context, offer Fields) (*Envelope, error) {
	body := offer.with(Fields{
		"tenantId":  s.stored(ctx, credentials.KeyTenantID),
		"createdBy": s.stored(ctx, credentials.KeyEmail),
		"isDeleted": false,
	})
	return s.call(ctx, http.MethodPost, "/api/Offer/InsertOffer", nil, body, "Failed to save offer")
}

// UpdateOffer replaces an offer. TenantID and UpdatedBy are taken from the session.
func (s *Service) UpdateOffer(ctx context.Context, offer Offer) (*Envelope, error) {
	offer.TenantID = s.numericTenant(ctx)
	offer.UpdatedBy = s.stored(ctx, credentials.KeyEmail)
	return s.call(ctx, http.MethodPost, "/api/Offer/UpdateOffer", nil, offer, "Failed to update offer")
}

func (s *Service) DeleteOffer(ctx context.Context, offerID int) (*Envelope, error) {
	body := Fields{
		"offerId":   offerID,
		"tenantId":  s.numericTenant(ctx),
		"updatedBy": s.stored(ctx, credentials.KeyEmail),
	}
	return s.call(ctx, http.MethodPost, "/api/Offer/DeleteOffer", nil, body, "Failed to delete offer")
}
