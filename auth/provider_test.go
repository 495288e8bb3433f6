package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-studio-portal/auth"
	"github.com/jrsteele09/go-studio-portal/credentials"
	porterrors "github.com/jrsteele09/go-studio-portal/internal/errors"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// countingAcquirer records calls and returns a canned response.
type countingAcquirer struct {
	calls atomic.Int32
	gate  chan struct{}
	resp  *auth.TokenResponse
	err   error
}

func (a *countingAcquirer) AcquireToken(ctx context.Context, email, password string) (*auth.TokenResponse, error) {
	a.calls.Add(1)
	if a.gate != nil {
		select {
		case <-a.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return a.resp, a.err
}

func tokenResponse(token string) *auth.TokenResponse {
	return &auth.TokenResponse{Data: &auth.TokenData{Token: &token}}
}

func TestNewProviderValidation(t *testing.T) {
	_, err := auth.NewProvider(nil, &countingAcquirer{})
	require.Error(t, err)
	_, err = auth.NewProvider(setupStore(nil), nil)
	require.Error(t, err)
}

func TestProviderReturnsValidStoredToken(t *testing.T) {
	acquirer := &countingAcquirer{resp: tokenResponse("new")}
	store := setupStore(subjectFields(map[credentials.Key]string{
		credentials.KeyToken:       "fresh",
		credentials.KeyTokenExpiry: "2099-01-01T00:00:00Z",
	}))
	provider, err := auth.NewProvider(store, acquirer)
	require.NoError(t, err)

	token, err := provider.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
	require.Zero(t, acquirer.calls.Load())
}

func TestProviderRenewsExpiredToken(t *testing.T) {
	backend := newTokenBackend(t, func(_ int32, w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, issueToken("renewed", "2099-01-01T00:00:00Z"))
	})
	store := setupStore(subjectFields(map[credentials.Key]string{
		credentials.KeyToken:       "stale",
		credentials.KeyTokenExpiry: "2000-01-01T00:00:00Z",
	}))
	svc, err := auth.NewService(store, backend.server.URL)
	require.NoError(t, err)

	token, err := svc.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "renewed", token)
	require.EqualValues(t, 1, backend.tokenCalls.Load())

	sent := backend.lastRequest(t)
	require.Equal(t, testEmail, sent.Email)
	require.Equal(t, testPassword, sent.Password)
	require.Equal(t, testTenantID, sent.TenantID)
}

func TestProviderRenewsWhenTokenMissingOrExpiryUnparsable(t *testing.T) {
	tests := map[string]map[credentials.Key]string{
		"no token":          {credentials.KeyTokenExpiry: "2099-01-01T00:00:00Z"},
		"empty token":       {credentials.KeyToken: "", credentials.KeyTokenExpiry: "2099-01-01T00:00:00Z"},
		"no expiry":         {credentials.KeyToken: "orphan"},
		"unparsable expiry": {credentials.KeyToken: "orphan", credentials.KeyTokenExpiry: "soon"},
	}
	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			acquirer := &countingAcquirer{resp: tokenResponse("new")}
			provider, err := auth.NewProvider(setupStore(subjectFields(fields)), acquirer)
			require.NoError(t, err)

			token, err := provider.Token(t.Context())
			require.NoError(t, err)
			require.Equal(t, "new", token)
			require.EqualValues(t, 1, acquirer.calls.Load())
		})
	}
}

func TestProviderUsesAcquisitionResponseNotStore(t *testing.T) {
	// The acquirer does not touch the store, so a store read would return "stale".
	acquirer := &countingAcquirer{resp: tokenResponse("from-response")}
	store := setupStore(subjectFields(map[credentials.Key]string{
		credentials.KeyToken:       "stale",
		credentials.KeyTokenExpiry: "2000-01-01T00:00:00Z",
	}))
	provider, err := auth.NewProvider(store, acquirer)
	require.NoError(t, err)

	token, err := provider.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "from-response", token)
}

func TestProviderPropagatesAcquisitionFailure(t *testing.T) {
	failure := &auth.AuthenticationError{StatusCode: http.StatusUnauthorized, Message: "Failed to get auth token"}
	acquirer := &countingAcquirer{err: failure}
	store := setupStore(subjectFields(map[credentials.Key]string{
		credentials.KeyToken:       "stale",
		credentials.KeyTokenExpiry: "2000-01-01T00:00:00Z",
	}))
	provider, err := auth.NewProvider(store, acquirer)
	require.NoError(t, err)

	token, err := provider.Token(t.Context())
	require.Same(t, failure, err)
	require.Empty(t, token)
	require.EqualValues(t, 1, acquirer.calls.Load())
}

func TestProviderNoTokenIssued(t *testing.T) {
	acquirer := &countingAcquirer{resp: &auth.TokenResponse{}}
	provider, err := auth.NewProvider(setupStore(subjectFields(nil)), acquirer)
	require.NoError(t, err)

	_, err = provider.Token(t.Context())
	require.ErrorIs(t, err, porterrors.ErrTokenNotIssued)
}

func TestProviderWithoutSingleFlightRenewsPerCaller(t *testing.T) {
	const callers = 4
	acquirer := &countingAcquirer{resp: tokenResponse("new"), gate: make(chan struct{})}
	provider, err := auth.NewProvider(setupStore(subjectFields(nil)), acquirer)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := provider.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "new", token)
		}()
	}
	require.Eventually(t, func() bool { return acquirer.calls.Load() == callers }, time.Second, 5*time.Millisecond)
	close(acquirer.gate)
	wg.Wait()
}

func TestProviderSingleFlightCoalescesRenewals(t *testing.T) {
	const callers = 8
	acquirer := &countingAcquirer{resp: tokenResponse("shared"), gate: make(chan struct{})}
	provider, err := auth.NewProvider(setupStore(subjectFields(nil)), acquirer, auth.WithSingleFlight())
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
		tokens  = make([]string, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			token, err := provider.Token(context.Background())
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}
	started.Wait()
	require.Eventually(t, func() bool { return acquirer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// Give the remaining callers time to join the in-flight renewal.
	time.Sleep(50 * time.Millisecond)
	close(acquirer.gate)
	wg.Wait()

	require.EqualValues(t, 1, acquirer.calls.Load())
	for _, token := range tokens {
		require.Equal(t, "shared", token)
	}
}

func TestProviderSingleFlightSurvivesCancelledLeader(t *testing.T) {
	acquirer := &countingAcquirer{resp: tokenResponse("shared"), gate: make(chan struct{})}
	provider, err := auth.NewProvider(setupStore(subjectFields(nil)), acquirer, auth.WithSingleFlight())
	require.NoError(t, err)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := provider.Token(leaderCtx)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return acquirer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		token string
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		token, err := provider.Token(context.Background())
		follower <- result{token, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	select {
	case err := <-leaderErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller is still waiting on the shared renewal")
	}

	close(acquirer.gate)
	select {
	case got := <-follower:
		require.NoError(t, got.err)
		require.Equal(t, "shared", got.token)
	case <-time.After(time.Second):
		t.Fatal("follower never received the renewed token")
	}
	require.EqualValues(t, 1, acquirer.calls.Load())
}

func TestProviderEndToEndWithSimulatedClock(t *testing.T) {
	clk := testclock.NewClock(time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC))
	backend := newTokenBackend(t, func(n int32, w http.ResponseWriter, _ *http.Request) {
		expiry := credentials.FormatExpiry(clk.Now().Add(time.Hour))
		writeJSON(w, http.StatusOK, issueToken(fmt.Sprintf("T%d", n), expiry))
	})
	store := setupStore(subjectFields(nil))
	svc, err := auth.NewService(store, backend.server.URL, auth.WithClock(clk))
	require.NoError(t, err)

	token, err := svc.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "T1", token)
	require.EqualValues(t, 1, backend.tokenCalls.Load())

	clk.Advance(59 * time.Minute)
	token, err = svc.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "T1", token)
	require.EqualValues(t, 1, backend.tokenCalls.Load())

	clk.Advance(2 * time.Minute)
	require.True(t, svc.Provider().IsExpired(t.Context()))
	token, err = svc.Token(t.Context())
	require.NoError(t, err)
	require.Equal(t, "T2", token)
	require.EqualValues(t, 2, backend.tokenCalls.Load())
	require.Equal(t, "T2", storedValue(t, store, credentials.KeyToken))
}

func TestTokenSourceAuthorisesThroughProvider(t *testing.T) {
	backend := newTokenBackend(t, func(n int32, w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, issueToken(fmt.Sprintf("T%d", n), "2099-01-01T00:00:00Z"))
	})
	var (
		mu   sync.Mutex
		seen []string
	)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Header.Get("Authorization"))
	}))
	t.Cleanup(api.Close)

	svc, err := auth.NewService(setupStore(subjectFields(nil)), backend.server.URL)
	require.NoError(t, err)

	client := &http.Client{Transport: &oauth2.Transport{Source: svc.Provider().TokenSource(t.Context())}}
	for i := 0; i < 2; i++ {
		resp, err := client.Get(api.URL)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	}
	mu.Lock()
	require.Equal(t, []string{"Bearer T1", "Bearer T1"}, seen)
	mu.Unlock()
	require.EqualValues(t, 1, backend.tokenCalls.Load())

	tok, err := svc.Provider().TokenSource(t.Context()).Token()
	require.NoError(t, err)
	require.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), tok.Expiry)
}
