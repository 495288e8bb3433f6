package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-studio-portal/credentials"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/jrsteele09/go-studio-portal/internal/redact"
	"github.com/jrsteele09/go-studio-portal/internal/utils"
	"github.com/jrsteele09/go-studio-portal/token"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgForbiddenTenant    = "You do not have access to this studio."
	msgBadRequest         = "The request could not be read."
	msgMissingBearer      = "Missing or malformed Authorization header."
	msgInvalidToken       = "Invalid access token."
	msgSessionExpired     = "Session expired. Please sign in again."
)

type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Message: message})
}

type tokenRequest struct {
	TenantID utils.FlexString `json:"tenantId"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
}

type tokenData struct {
	Token      string `json:"token"`
	ExpiryTime string `json:"expiryTime"`
}

// TokenHandler exchanges tenant, email and password for a signed access token.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls.Add(1)

		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgBadRequest)
			return
		}
		logger := s.logger.With().
			Str("tenant", req.TenantID.String()).
			Str("email", redact.Email(req.Email)).
			Logger()

		user, err := s.repos.Users.GetByEmail(req.TenantID.String(), req.Email)
		if err != nil || !user.CanSignIn(req.TenantID.String()) || !user.CheckPassword(req.Password) {
			logger.Info().Msg("token request rejected")
			writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		signed, expiresAt, err := s.issuer.Issue(user)
		if err != nil {
			logger.Err(err).Msg("failed to issue token")
			writeMessage(w, http.StatusInternalServerError, "Failed to issue token.")
			return
		}
		logger.Debug().Time("expires", expiresAt).Msg("token issued")
		writeJSON(w, http.StatusOK, envelope{Data: tokenData{
			Token:      signed,
			ExpiryTime: credentials.FormatExpiry(expiresAt),
		}})
	}
}

type adminLoginRequest struct {
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	RememberMe bool             `json:"rememberMe"`
	TenantID   utils.FlexString `json:"tenantId"`
}

type adminProfile struct {
	UserID    int    `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AdminLoginHandler signs an administrator in to the tenant named in the bearer token.
func (s *Server) AdminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())

		var req adminLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, msgBadRequest)
			return
		}
		if err := checkTenant(claims, req.TenantID.String()); err != nil {
			s.forbidTenant(w, r, err)
			return
		}
		if !strings.EqualFold(req.Email, claims.Email) {
			writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		user, err := s.repos.Users.GetByEmail(claims.TenantID, req.Email)
		if err != nil || !user.CheckPassword(req.Password) {
			writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		if !user.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "Your account does not have admin access.")
			return
		}
		if err := s.repos.Users.SetLastLogin(user.ID, s.clock.Now()); err != nil {
			s.logger.Warn().Err(err).Int("user", user.ID).Msg("failed to record last login")
		}

		writeJSON(w, http.StatusOK, envelope{
			Message: "Login successful.",
			Data: adminProfile{
				UserID:    user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
				Role:      string(user.Role),
			},
		})
	}
}

// tenantScope returns the caller's tenant when the tenantId query parameter
// names it, writing the error response otherwise.
func (s *Server) tenantScope(w http.ResponseWriter, r *http.Request) (*token.Claims, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, msgSessionExpired)
		return nil, false
	}
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		writeMessage(w, http.StatusBadRequest, "tenantId is required.")
		return nil, false
	}
	if err := checkTenant(claims, tenantID); err != nil {
		s.forbidTenant(w, r, err)
		return nil, false
	}
	return claims, true
}

// checkTenant fails with ErrUnauthorizedTenant unless the token was issued
// for tenantID.
func checkTenant(claims *token.Claims, tenantID string) error {
	if tenantID != claims.TenantID {
		return porterrors.Wrapf(porterrors.ErrUnauthorizedTenant, "tenant %q, token issued for %q", tenantID, claims.TenantID)
	}
	return nil
}

func (s *Server) forbidTenant(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("cross-tenant request refused")
	writeMessage(w, http.StatusForbidden, msgForbiddenTenant)
}

func (s *Server) LocationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.tenantScope(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, envelope{Data: s.locations.list(claims.TenantID)})
	}
}

func (s *Server) InsertLocationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.tenantScope(w, r)
		if !ok {
			return
		}
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || fields == nil {
			writeMessage(w, http.StatusBadRequest, msgBadRequest)
			return
		}
		name, _ := fields["locationName"].(string)
		if strings.TrimSpace(name) == "" {
			writeMessage(w, http.StatusBadRequest, "Location name is required.")
			return
		}
		location := s.locations.insert(claims.TenantID, fields, s.clock.Now())
		writeJSON(w, http.StatusOK, envelope{Data: location, Message: "Location added successfully."})
	}
}

type dashboardData struct {
	TenantID      string `json:"tenantId"`
	TenantName    string `json:"tenantName"`
	LocationCount int    `json:"locationCount"`
	GeneratedAt   string `json:"generatedAt"`
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.tenantScope(w, r)
		if !ok {
			return
		}
		data := dashboardData{
			TenantID:      claims.TenantID,
			LocationCount: len(s.locations.list(claims.TenantID)),
			GeneratedAt:   credentials.FormatExpiry(s.clock.Now()),
		}
		if t, err := s.repos.Tenants.Get(claims.TenantID); err == nil {
			data.TenantName = t.Name
		}
		writeJSON(w, http.StatusOK, envelope{Data: data})
	}
}

// PreflightHandler answers OPTIONS requests that reach it without CORS headers.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))
		w.WriteHeader(http.StatusNoContent)
	}
}
