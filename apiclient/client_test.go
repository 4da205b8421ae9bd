package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-questpath-client/apiclient"
	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/internal/fakeapi"
	tokenfakerepo "github.com/jrsteele09/go-questpath-client/token/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const (
	testEmail    = "ada@example.com"
	testPassword = "correct-horse"
)

type notes struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notes) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, message)
}

func (n *notes) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type fixture struct {
	srv   *fakeapi.Server
	repo  *tokenfakerepo.FakeTokenRepo
	c     *apiclient.Client
	notes *notes
}

func newFixture(t *testing.T, opts ...apiclient.Option) *fixture {
	t.Helper()
	srv, baseURL := fakeapi.Start(t)
	srv.AddUser(testEmail, testPassword, 250)
	f := &fixture{srv: srv, repo: tokenfakerepo.NewFakeTokenRepo(), notes: &notes{}}
	opts = append([]apiclient.Option{apiclient.WithNotifier(f.notes)}, opts...)
	c, err := apiclient.New(baseURL, f.repo, opts...)
	require.NoError(t, err)
	f.c = c
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.c.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	repo := tokenfakerepo.NewFakeTokenRepo()
	for _, baseURL := range []string{"", "not a url", "/api"} {
		_, err := apiclient.New(baseURL, repo)
		require.ErrorIs(t, err, errors.ErrMissingBaseURL, baseURL)
	}
}

func TestLoginStoresTokenAndAttachesBearer(t *testing.T) {
	f := newFixture(t)
	tok, err := f.c.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.False(t, tok.Expiry.IsZero())

	stored, err := f.repo.Get()
	require.NoError(t, err)
	require.Equal(t, tok.AccessToken, stored.AccessToken)

	user, err := f.c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, 250, user.TotalExp)

	logins := f.srv.RequestsTo(http.MethodPost, "/auth/login")
	require.Len(t, logins, 1)
	require.Empty(t, logins[0].Authorization)

	me := f.srv.RequestsTo(http.MethodGet, "/auth/me")
	require.Len(t, me, 1)
	require.Equal(t, "Bearer "+tok.AccessToken, me[0].Authorization)
	require.NotEmpty(t, me[0].RequestID)
	require.NotEqual(t, logins[0].RequestID, me[0].RequestID)
}

func TestRequestWithoutTokenIsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	_, err := f.c.Me(context.Background())
	require.True(t, apierror.IsStatus(err, http.StatusUnauthorized))

	me := f.srv.RequestsTo(http.MethodGet, "/auth/me")
	require.Len(t, me, 1)
	require.Empty(t, me[0].Authorization)
	require.Equal(t, 1, f.srv.RefreshCalls())
	require.Empty(t, f.notes.all())
}

func TestExpiredTokenRefreshesOnceAndRetries(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	before, err := f.repo.Get()
	require.NoError(t, err)

	f.srv.ExpireAccessTokens()
	user, err := f.c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)

	require.Equal(t, 1, f.srv.RefreshCalls())
	require.EqualValues(t, 1, f.c.RefreshCalls())

	refreshes := f.srv.RequestsTo(http.MethodPost, "/auth/refresh")
	require.Len(t, refreshes, 1)
	require.True(t, refreshes[0].HasCookie)
	require.Empty(t, refreshes[0].Authorization)

	me := f.srv.RequestsTo(http.MethodGet, "/auth/me")
	require.Len(t, me, 2)
	require.Equal(t, "Bearer "+before.AccessToken, me[0].Authorization)
	require.NotEqual(t, me[0].Authorization, me[1].Authorization)

	after, err := f.repo.Get()
	require.NoError(t, err)
	require.Equal(t, "Bearer "+after.AccessToken, me[1].Authorization)
	require.Empty(t, f.notes.all())
}

func TestRefreshFailureClearsTokenAndReturnsOriginal401(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.srv.ExpireAccessTokens()
	f.srv.SetRejectRefresh(true)

	_, err := f.c.Me(context.Background())
	require.Error(t, err)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "/auth/me", apiErr.Path)

	_, err = f.repo.Get()
	require.ErrorIs(t, err, errors.ErrNoToken)
	require.Equal(t, 1, f.srv.RefreshCalls())
	require.Len(t, f.srv.RequestsTo(http.MethodGet, "/auth/me"), 1)
	require.Empty(t, f.notes.all())
}

func TestRetriedRequestIsNotRetriedAgain(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.srv.FailNext(http.MethodGet, "/auth/me", -1, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)

	_, err := f.c.Me(context.Background())
	require.True(t, apierror.IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, 1, f.srv.RefreshCalls())
	require.Len(t, f.srv.RequestsTo(http.MethodGet, "/auth/me"), 2)
	require.Empty(t, f.notes.all())
}

func TestBadCredentialsDoNotRefresh(t *testing.T) {
	f := newFixture(t)
	_, err := f.c.Login(context.Background(), testEmail, "wrong")
	require.True(t, apierror.IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, 0, f.srv.RefreshCalls())
	require.Equal(t, 0, f.repo.Sets())
}

func TestFailuresAreClassifiedAndNotified(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "forbidden", status: http.StatusForbidden, body: `{"detail":"nope"}`, want: apierror.MsgForbidden},
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Goal not found"}`, want: apierror.MsgNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: ``, want: apierror.MsgServer},
		{name: "unavailable", status: http.StatusServiceUnavailable, body: ``, want: apierror.MsgUnavailable},
		{name: "string detail", status: http.StatusBadRequest, body: `{"detail":"Email already registered"}`, want: "Email already registered"},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"}]}`, want: "field required"},
		{name: "object detail", status: http.StatusBadRequest, body: `{"detail":{"message":"Limit reached","code":"X"}}`, want: "Limit reached"},
		{name: "no detail", status: http.StatusConflict, body: `{}`, want: apierror.MsgGeneric},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t)
			f.srv.FailNext(http.MethodGet, "/leaderboard", 1, tc.status, tc.body)

			_, err := f.c.Leaderboard(context.Background())
			require.True(t, apierror.IsStatus(err, tc.status))
			require.Equal(t, tc.want, apierror.Classify(err))
			require.Equal(t, []string{tc.want}, f.notes.all())
		})
	}
}

func TestSilentCallsAreNotNotified(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.srv.FailNext(http.MethodGet, "/auth/me", 1, http.StatusInternalServerError, ``)

	_, err := f.c.Me(context.Background(), apiclient.Silent())
	require.True(t, apierror.IsStatus(err, http.StatusInternalServerError))
	require.Empty(t, f.notes.all())
}

func TestNetworkErrorIsNotified(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	baseURL := ts.URL + "/api"
	ts.Close()

	n := &notes{}
	c, err := apiclient.New(baseURL, tokenfakerepo.NewFakeTokenRepoWith("abc"), apiclient.WithNotifier(n))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.NoResponse())
	require.Equal(t, []string{apierror.MsgNetwork}, n.all())
}

func TestUnreadableResponsesAreNotNetworkErrors(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *apiclient.Client) error
		status int
	}{
		{
			name: "2xx body is not JSON",
			call: func(c *apiclient.Client) error {
				_, err := c.Leaderboard(context.Background())
				return err
			},
			status: http.StatusOK,
		},
		{
			name: "request body cannot be encoded",
			call: func(c *apiclient.Client) error {
				return c.Post(context.Background(), "/goals", map[string]any{"bad": make(chan int)}, nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.login(t)
			f.srv.FailNext(http.MethodGet, "/leaderboard", 1, http.StatusOK, "<html>ok</html>")

			err := tt.call(f.c)
			require.Error(t, err)
			require.Equal(t, tt.status, apierror.StatusCode(err))
			require.Equal(t, []string{apierror.MsgGeneric}, f.notes.all())
		})
	}
}

func TestCancelledContextIsNotNotified(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.c.Me(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, f.notes.all())
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	err := f.c.Register(context.Background(), "not-an-email", "longenough")
	require.True(t, apierror.IsStatus(err, http.StatusUnprocessableEntity))
	require.Equal(t, []string{"value is not a valid email address"}, f.notes.all())

	require.NoError(t, f.c.Register(context.Background(), "grace@example.com", "longenough"))
	_, err = f.c.Login(context.Background(), "grace@example.com", "longenough")
	require.NoError(t, err)
}

func TestConcurrentRequestsAfterExpiry(t *testing.T) {
	for _, coalesce := range []bool{false, true} {
		f := newFixture(t, apiclient.WithCoalescedRefresh(coalesce))
		f.login(t)
		f.srv.ExpireAccessTokens()

		const n = 5
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				user, err := f.c.Me(context.Background())
				assert.NoError(t, err)
				if user != nil {
					assert.Equal(t, testEmail, user.Email)
				}
			}()
		}
		wg.Wait()

		calls := f.srv.RefreshCalls()
		require.GreaterOrEqual(t, calls, 1)
		require.LessOrEqual(t, calls, n)
		require.Empty(t, f.notes.all())
	}
}
