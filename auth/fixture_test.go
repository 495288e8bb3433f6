package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-studio-portal/auth"
	"github.com/jrsteele09/go-studio-portal/credentials"
	"github.com/jrsteele09/go-studio-portal/credentials/storefake"
	"github.com/stretchr/testify/require"
)

const (
	testTenantID = "42"
	testEmail    = "a@b.com"
	testPassword = "pw"
)

// tokenBackend is an httptest server standing in for the studio API.
type tokenBackend struct {
	server     *httptest.Server
	tokenCalls atomic.Int32

	mu        sync.Mutex
	requests  []auth.TokenRequest
	respond   func(n int32, w http.ResponseWriter, r *http.Request)
	loginBody map[string]any
	loginAuth string
	login     func(w http.ResponseWriter, r *http.Request)
}

func newTokenBackend(t *testing.T, respond func(n int32, w http.ResponseWriter, r *http.Request)) *tokenBackend {
	t.Helper()
	b := &tokenBackend{respond: respond}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/Auth/Token", func(w http.ResponseWriter, r *http.Request) {
		n := b.tokenCalls.Add(1)
		var req auth.TokenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.requests = append(b.requests, req)
		b.mu.Unlock()
		b.respond(n, w, r)
	})
	mux.HandleFunc("POST /api/Login/AdminLogin", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		b.loginBody = body
		b.loginAuth = r.Header.Get("Authorization")
		handler := b.login
		b.mu.Unlock()
		if handler == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *tokenBackend) setLogin(login func(w http.ResponseWriter, r *http.Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.login = login
}

// lastLogin returns the body and Authorization header of the last admin login call.
func (b *tokenBackend) lastLogin() (map[string]any, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loginBody, b.loginAuth
}

func (b *tokenBackend) lastRequest(t *testing.T) auth.TokenRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func issueToken(token, expiry string) map[string]any {
	return map[string]any{"data": map[string]any{"token": token, "expiryTime": expiry}}
}

// setupStore returns a store holding the given record fields.
func setupStore(fields map[credentials.Key]string) *storefake.FakeStore {
	return storefake.NewFakeStoreWith(fields)
}

func subjectFields(extra map[credentials.Key]string) map[credentials.Key]string {
	fields := map[credentials.Key]string{
		credentials.KeyTenantID: testTenantID,
		credentials.KeyEmail:    testEmail,
		credentials.KeyPassword: testPassword,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func storedValue(t *testing.T, store credentials.Store, key credentials.Key) string {
	t.Helper()
	v, _ := store.Get(t.Context(), key)
	return v
}
