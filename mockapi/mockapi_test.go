package mockapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-studio-portal/internal/config"
	"github.com/jrsteele09/go-studio-portal/mockapi"
	"github.com/jrsteele09/go-studio-portal/tenants"
	tenantrepofakes "github.com/jrsteele09/go-studio-portal/tenants/repofakes"
	"github.com/jrsteele09/go-studio-portal/users"
	fakeuserrepo "github.com/jrsteele09/go-studio-portal/users/repofake"
	"github.com/juju/clock/testclock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@lotus.test"
	adminPassword = "admin-pass"
)

type testConfig struct {
	config.EnvVars
	config.Mock
}

func newTestConfig() testConfig {
	return testConfig{
		EnvVars: config.EnvVars{Env: "TEST", AppName: "Studio Mock"},
		Mock: config.Mock{
			Cors:              config.Cors{Origins: []string{"http://app.test"}},
			SigningSecret:     "test-secret",
			TokenLifetime:     time.Hour,
			SeedTenantID:      "1",
			SeedTenantName:    "Lotus Yoga",
			SeedAdminEmail:    adminEmail,
			SeedAdminPassword: adminPassword,
		},
	}
}

var start = time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*mockapi.Server, *testclock.Clock) {
	t.Helper()
	clk := testclock.NewClock(start)
	srv, err := mockapi.New(newTestConfig(), mockapi.WithClock(clk))
	require.NoError(t, err)
	return srv, clk
}

type response struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func do(t *testing.T, srv http.Handler, method, target, bearer string, body any) (int, response, http.Header) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var out response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out, rec.Header()
}

func issue(t *testing.T, srv http.Handler, tenantID, email, password string) string {
	t.Helper()
	code, resp, _ := do(t, srv, http.MethodPost, mockapi.RouteToken, "", map[string]string{
		"tenantId": tenantID, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, code, resp.Message)
	var data struct {
		Token      string `json:"token"`
		ExpiryTime string `json:"expiryTime"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestTokenEndpoint(t *testing.T) {
	srv, _ := newMock(t)

	code, resp, _ := do(t, srv, http.MethodPost, mockapi.RouteToken, "", map[string]string{
		"tenantId": "1", "email": "ADMIN@lotus.test", "password": adminPassword,
	})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token      string `json:"token"`
		ExpiryTime string `json:"expiryTime"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, "2030-03-01T10:00:00Z", data.ExpiryTime)

	claims, err := srv.Issuer().Parse(data.Token)
	require.NoError(t, err)
	require.Equal(t, "1", claims.TenantID)
	require.Equal(t, adminEmail, claims.Email)

	tests := []struct {
		name string
		body any
	}{
		{"wrong password", map[string]string{"tenantId": "1", "email": adminEmail, "password": "nope"}},
		{"unknown tenant", map[string]string{"tenantId": "2", "email": adminEmail, "password": adminPassword}},
		{"unknown user", map[string]string{"tenantId": "1", "email": "who@lotus.test", "password": adminPassword}},
		{"numeric tenant", map[string]any{"tenantId": 0, "email": adminEmail, "password": adminPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp, _ := do(t, srv, http.MethodPost, mockapi.RouteToken, "", tt.body)
			require.Equal(t, http.StatusUnauthorized, code)
			require.Equal(t, "Invalid email or password.", resp.Message)
			require.Empty(t, resp.Data)
		})
	}

	require.EqualValues(t, 1+len(tests), srv.TokenCalls())
}

func TestTokenEndpointRejectsBlockedUser(t *testing.T) {
	userRepo := fakeuserrepo.NewFakeUserRepo()
	clk := testclock.NewClock(start)
	srv, err := mockapi.New(newTestConfig(), mockapi.WithClock(clk), mockapi.WithRepos(mockapi.Repos{
		Tenants: tenantrepofakes.NewFakeTenantRepo(),
		Users:   userRepo,
	}))
	require.NoError(t, err)

	require.NoError(t, userRepo.SetBlocked("1", adminEmail, true))
	code, _, _ := do(t, srv, http.MethodPost, mockapi.RouteToken, "", map[string]string{
		"tenantId": "1", "email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireAuth(t *testing.T) {
	srv, clk := newMock(t)
	bearer := issue(t, srv, "1", adminEmail, adminPassword)

	code, resp, _ := do(t, srv, http.MethodGet, mockapi.RouteLocationList+"?tenantId=1", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Missing or malformed Authorization header.", resp.Message)

	code, resp, _ = do(t, srv, http.MethodGet, mockapi.RouteLocationList+"?tenantId=1", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Invalid access token.", resp.Message)

	code, resp, _ = do(t, srv, http.MethodGet, mockapi.RouteLocationList+"?tenantId=1", bearer, nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, string(resp.Data))

	clk.Advance(61 * time.Minute)
	code, resp, _ = do(t, srv, http.MethodGet, mockapi.RouteLocationList+"?tenantId=1", bearer, nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Session expired. Please sign in again.", resp.Message)
}

func TestTenantScope(t *testing.T) {
	logs := &bytes.Buffer{}
	srv, err := mockapi.New(newTestConfig(), mockapi.WithClock(testclock.NewClock(start)), mockapi.WithLogger(zerolog.New(logs)))
	require.NoError(t, err)
	_, err = srv.SeedTenant(&tenants.Tenant{ID: "2", Name: "Core Pilates"})
	require.NoError(t, err)
	_, err = srv.SeedUser("2", "owner@core.test", "core-pass", users.RoleAdmin, "Cora", "Owner")
	require.NoError(t, err)

	lotus := issue(t, srv, "1", adminEmail, adminPassword)
	core := issue(t, srv, "2", "owner@core.test", "core-pass")

	code, _, _ := do(t, srv, http.MethodPost, mockapi.RouteInsertLocation+"?tenantId=1", lotus, map[string]any{
		"locationName": "Main Hall",
	})
	require.Equal(t, http.StatusOK, code)

	code, resp, _ := do(t, srv, http.MethodGet, mockapi.RouteLocationList+"?tenantId=1", core, nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "You do not have access to this studio.", resp.Message)
	require.Contains(t, logs.String(), "unauthorized for tenant")
	require.Contains(t, logs.String(), `tenant \"1\", token issued for \"2\"`)

	code, _, _ = do(t, srv, http.MethodGet, mockapi.RouteLocationList, core, nil)
	require.Equal(t, http.StatusBadRequest, code)

	code, resp, _ = do(t, srv, http.MethodGet, mockapi.RouteLocationList+"?tenantId=2", core, nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, string(resp.Data))
}

func TestInsertLocation(t *testing.T) {
	srv, _ := newMock(t)
	bearer := issue(t, srv, "1", adminEmail, adminPassword)

	code, resp, _ := do(t, srv, http.MethodPost, mockapi.RouteInsertLocation+"?tenantId=1", bearer, map[string]any{
		"locationName": "Main Hall",
		"tenantId":     "99",
		"createdBy":    "1",
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Location added successfully.", resp.Message)

	var loc map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &loc))
	require.EqualValues(t, 1, loc["locationId"])
	require.Equal(t, "1", loc["tenantId"])
	require.Equal(t, "2030-03-01T09:00:00Z", loc["createdAt"])

	code, resp, _ = do(t, srv, http.MethodPost, mockapi.RouteInsertLocation+"?tenantId=1", bearer, map[string]any{})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Location name is required.", resp.Message)

	code, resp, _ = do(t, srv, http.MethodGet, mockapi.RouteDashboard+"?tenantId=1", bearer, nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"tenantId":"1","tenantName":"Lotus Yoga","locationCount":1,"generatedAt":"2030-03-01T09:00:00Z"}`, string(resp.Data))
}

func TestAdminLoginEndpoint(t *testing.T) {
	srv, _ := newMock(t)
	_, err := srv.SeedUser("1", "staff@lotus.test", "staff-pass", users.RoleStaff, "Sam", "Staff")
	require.NoError(t, err)

	bearer := issue(t, srv, "1", adminEmail, adminPassword)
	code, resp, _ := do(t, srv, http.MethodPost, mockapi.RouteAdminLogin, bearer, map[string]any{
		"email": adminEmail, "password": adminPassword, "rememberMe": true, "tenantId": 1,
	})
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"userId":1,"firstName":"Studio","lastName":"Administrator","email":"admin@lotus.test","role":"Admin"}`, string(resp.Data))

	code, _, _ = do(t, srv, http.MethodPost, mockapi.RouteAdminLogin, bearer, map[string]any{
		"email": adminEmail, "password": adminPassword, "tenantId": 2,
	})
	require.Equal(t, http.StatusForbidden, code)

	staff := issue(t, srv, "1", "staff@lotus.test", "staff-pass")
	code, resp, _ = do(t, srv, http.MethodPost, mockapi.RouteAdminLogin, staff, map[string]any{
		"email": "staff@lotus.test", "password": "staff-pass", "tenantId": 1,
	})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Your account does not have admin access.", resp.Message)
}

func TestCorsMiddleware(t *testing.T) {
	srv, _ := newMock(t)

	preflight := func(origin string) http.Header {
		req := httptest.NewRequest(http.MethodOptions, mockapi.RouteToken, nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Header()
	}

	h := preflight("http://app.test")
	require.Equal(t, "http://app.test", h.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
	require.Contains(t, h.Get("Access-Control-Allow-Headers"), "Authorization")

	h = preflight("http://evil.test")
	require.Empty(t, h.Get("Access-Control-Allow-Origin"))

	code, _, h := do(t, srv, http.MethodPost, mockapi.RouteToken, "", map[string]string{})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Empty(t, h.Get("Access-Control-Allow-Origin"), "same-origin requests get no CORS headers")
}

func TestRecoverMiddleware(t *testing.T) {
	srv, _ := newMock(t)
	handler := mockapi.ChainMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, srv.APIMiddleware()...)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "unexpected error"))
}

func TestInitialiseSystem(t *testing.T) {
	repos := mockapi.Repos{
		Tenants: tenantrepofakes.NewFakeTenantRepo(),
		Users:   fakeuserrepo.NewFakeUserRepo(),
	}
	cfg := newTestConfig()
	cfg.SeedAdminPassword = ""

	_, err := mockapi.New(cfg, mockapi.WithRepos(repos))
	require.NoError(t, err)

	admin, err := repos.Users.GetByEmail("1", adminEmail)
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())
	require.NotEmpty(t, admin.PasswordHash)
	hash := admin.PasswordHash

	// A restart against the same stores keeps the existing administrator.
	_, err = mockapi.New(cfg, mockapi.WithRepos(repos))
	require.NoError(t, err)
	admin, err = repos.Users.GetByEmail("1", adminEmail)
	require.NoError(t, err)
	require.Equal(t, hash, admin.PasswordHash)

	list, err := repos.Tenants.List(0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Lotus Yoga", list[0].Name)
}

func TestNewRequiresSigningSecret(t *testing.T) {
	cfg := newTestConfig()
	cfg.SigningSecret = ""
	_, err := mockapi.New(cfg)
	require.Error(t, err)
}
