package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/jrsteele09/go-studio-portal/internal/utils"
)

// User list filters accepted by GetUserList.
const (
	UserTypeClient = "Client"
	UserTypeStaff  = "NotClient"
)

// userID is the signed-in user's id, "0" when none is stored.
func (s *Service) userID(ctx context.Context) string {
	if v := s.stored(ctx, credentials.KeyUserID); v != "" {
		return v
	}
	return "0"
}

// role is the signed-in user's role, "Admin" when none is stored.
func (s *Service) role(ctx context.Context) string {
	if v := s.stored(ctx, credentials.KeyRole); v != "" {
		return v
	}
	return "Admin"
}

// InsertUser adds a customer or staff member. role defaults to Client. No
// password is invented when the form has none.
func (s *Service) InsertUser(ctx context.Context, user Fields) (*Envelope, error) {
	extra := Fields{"tenantId": s.tenantID(ctx), "createdBy": s.userID(ctx)}
	if r, _ := user["role"].(string); r == "" {
		extra["role"] = UserTypeClient
	}
	return s.call(ctx, http.MethodPost, "/api/User/InsertUser", nil, user.with(extra), "Failed to add customer.")
}

// GetUserList lists the tenant's users of userType as seen by the signed-in
// user. An empty userType lists clients.
func (s *Service) GetUserList(ctx context.Context, userType string) (*Envelope, error) {
	if userType == "" {
		userType = UserTypeClient
	}
	q := url.Values{
		"tenantId":    {s.tenantID(ctx)},
		"userRole":    {s.role(ctx)},
		"userId":      {s.stored(ctx, credentials.KeyUserID)},
		"getUserRole": {userType},
	}
	return s.call(ctx, http.MethodGet, "/api/User/GetUserList", q, nil, "Failed to fetch user list.")
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	q.Set("userId", userID)
	return s.call(ctx, http.MethodGet, "/api/User/GetUserById", q, nil, "Failed to fetch user.")
}

func (s *Service) GetProfileByID(ctx context.Context, userID string) (*Envelope, error) {
	_, q := s.tenantQuery(ctx)
	q.Set("userId", userID)
	return s.call(ctx, http.MethodGet, "/api/User/GetProfileById", q, nil, "Failed to fetch profile.")
}

// UpdateUser replaces a user's details. user must carry its userId.
func (s *Service) UpdateUser(ctx context.Context, user Fields) (*Envelope, error) {
	body := user.with(Fields{"tenantId": s.tenantID(ctx), "updatedBy": s.stored(ctx, credentials.KeyUserID)})
	return s.call(ctx, http.MethodPost, "/api/User/UpdateUser", nil, body, "Failed to update user.")
}

// SetUserActiveStatus activates or deactivates a user. A numeric userID is
// sent as a JSON number.
func (s *Service) SetUserActiveStatus(ctx context.Context, userID string, active bool) (*Envelope, error) {
	body := Fields{
		"userId":    utils.NumericOrString(userID),
		"tenantId":  s.tenantID(ctx),
		"isActive":  active,
		"updatedBy": s.stored(ctx, credentials.KeyUserID),
		"userRole":  s.stored(ctx, credentials.KeyRole),
	}
	return s.call(ctx, http.MethodPost, "/api/User/SetUserActiveStatus", nil, body, "Failed to update user status.")
}
