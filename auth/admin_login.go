package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/jrsteele09/go-studio-portal/credentials"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/jrsteele09/go-studio-portal/internal/redact"
	"github.com/jrsteele09/go-studio-portal/internal/utils"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const adminLoginPath = "/api/Login/AdminLogin"

// AdminLoginRequest holds the values entered on the admin login form.
type AdminLoginRequest struct {
	Email      string
	Password   string
	RememberMe bool
}

type adminLoginBody struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
	TenantID   int    `json:"tenantId"`
}

// AdminProfile is the signed-in administrator returned by the login endpoint.
type AdminProfile struct {
	UserID    utils.FlexString `json:"userId"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email"`
	Role      utils.FlexString `json:"role"`
}

type AdminLoginResponse struct {
	Data    *AdminProfile   `json:"data"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// AdminLogin acquires a token for the given credentials and then signs the
// administrator in with it. On success the profile and password are stored so
// later calls can renew the token without asking again.
func (s *Service) AdminLogin(ctx context.Context, in AdminLoginRequest) (*AdminLoginResponse, error) {
	logger := s.opts.logger.With().Str("email", redact.Email(in.Email)).Logger()

	if _, err := s.tokens.AcquireToken(ctx, in.Email, in.Password); err != nil {
		return nil, err
	}

	body, err := json.Marshal(adminLoginBody{
		Email:      in.Email,
		Password:   in.Password,
		RememberMe: in.RememberMe,
		TenantID:   utils.AtoiOrZero(credentials.TenantID(ctx, s.store)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.AdminLogin] encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+adminLoginPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.AdminLogin] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := s.store.Get(ctx, credentials.KeyToken); ok && token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	resp, err := s.opts.httpClient.Do(req)
	if err != nil {
		logger.Err(err).Msg("admin login request failed")
		return nil, errors.Wrap(err, "[Service.AdminLogin] send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.AdminLogin] read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(raw)
		authErr := &AuthenticationError{StatusCode: resp.StatusCode, Message: msg, ServerMessage: msg}
		if msg == "" {
			authErr.Message = loginFailedMessage
		}
		logger.Warn().Int("status", resp.StatusCode).Msg(authErr.Detail())
		return nil, authErr
	}

	var out AdminLoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(porterrors.ErrMalformedResponse, "[Service.AdminLogin] "+err.Error())
	}
	out.Raw = raw

	if p := out.Data; p != nil {
		s.store.Update(ctx, map[credentials.Key]string{
			credentials.KeyUserID:    p.UserID.String(),
			credentials.KeyFirstName: p.FirstName,
			credentials.KeyLastName:  p.LastName,
			credentials.KeyEmail:     p.Email,
			credentials.KeyRole:      p.Role.String(),
			credentials.KeyPassword:  in.Password,
		})
		logger.Info().Str("userId", p.UserID.String()).Msg("admin signed in")
	}
	return &out, nil
}
