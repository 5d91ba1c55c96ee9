package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/browser/static"
	"reactapp-uitests/internal/infrastructure/demoapp"
	"reactapp-uitests/internal/infrastructure/logger"
	"reactapp-uitests/internal/usecase/navigation"
)

const (
	knownEmail    = "known@example.com"
	knownPassword = "Secret1!"
)

type fixture struct {
	baseURL   string
	store     *demoapp.Store
	session   output.SessionPort
	navigator *navigation.Navigator
}

func newFixture(t *testing.T, timeout time.Duration) *fixture {
	t.Helper()

	store := demoapp.NewStore(bcrypt.MinCost)
	require.NoError(t, store.AddUser(knownEmail, knownPassword))
	srv := httptest.NewServer(demoapp.New(store, logger.NewNop(), demoapp.Options{}).Handler())
	t.Cleanup(srv.Close)

	session := newSession(t)
	cfg := entity.DefaultRunConfiguration()
	cfg.DefaultTimeoutMs = float64(timeout.Milliseconds())

	return &fixture{
		baseURL:   srv.URL,
		store:     store,
		session:   session,
		navigator: navigation.New(cfg, logger.NewNop()),
	}
}

func newSession(t *testing.T) output.SessionPort {
	t.Helper()
	browser := static.NewBrowserAdapter(static.Config{})
	t.Cleanup(func() { _ = browser.Close() })
	session, err := browser.NewSession(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func (f *fixture) login() *LoginPage {
	return NewLoginPage(f.session, f.navigator, logger.NewNop())
}

func (f *fixture) register() *RegisterPage {
	return NewRegisterPage(f.session, f.navigator, logger.NewNop())
}

func path(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Path
}

func TestLoginPage_NavigateLandsOnLogin(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	page := f.login()

	require.NoError(t, page.Navigate(context.Background(), f.baseURL))
	assert.Equal(t, "/login", path(t, page.CurrentURL()))

	require.NoError(t, page.Navigate(context.Background(), f.baseURL+"/"))
	assert.Equal(t, "/login", path(t, page.CurrentURL()))
}

func TestLoginPage_LoginThenLoggedIn(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	page := f.login()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	require.NoError(t, page.Login(ctx, knownEmail, knownPassword))

	loggedIn, err := page.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)
	assert.Equal(t, "/my-rooms", path(t, page.CurrentURL()))
}

func TestLoginPage_WrongPasswordTimesOut(t *testing.T) {
	f := newFixture(t, 200*time.Millisecond)
	page := f.login()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	err := page.Login(ctx, knownEmail, "wrong")

	var terr *entity.NavigationTimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "/login", path(t, terr.LastURL))

	loggedIn, err := page.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestLoginPage_LogoutThenLoggedOut(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	page := f.login()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	require.NoError(t, page.Login(ctx, knownEmail, knownPassword))
	require.NoError(t, page.Logout(ctx))
	assert.Zero(t, f.store.ActiveSessions())

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	loggedIn, err := page.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestLoginPage_IsLoggedInFallsBackToControls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/dashboard":
			_, _ = w.Write([]byte(`<nav><button>My Rooms</button><button>My Rooms</button></nav>`))
		default:
			_, _ = w.Write([]byte(`<p>Welcome</p>`))
		}
	}))
	t.Cleanup(srv.Close)

	nav := navigation.New(entity.DefaultRunConfiguration(), logger.NewNop())
	page := NewLoginPage(newSession(t), nav, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, page.Base.Navigate(ctx, srv.URL, "dashboard"))
	loggedIn, err := page.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, loggedIn)

	require.NoError(t, page.Base.Navigate(ctx, srv.URL, "about"))
	loggedIn, err = page.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestRegisterPage_RegisterConfirms(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	page := f.register()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	assert.Equal(t, "/register", path(t, page.CurrentURL()))
	assert.False(t, page.IsRegistrationConfirmed(ctx))

	require.NoError(t, page.Register(ctx, "fresh@example.com", "Passw0rd!", "Passw0rd!"))
	assert.True(t, page.IsRegistrationConfirmed(ctx))
	assert.True(t, f.store.HasUser("fresh@example.com"))
}

func TestRegisterPage_MismatchIsRejected(t *testing.T) {
	f := newFixture(t, 200*time.Millisecond)
	page := f.register()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	err := page.Register(ctx, "fresh@example.com", "Passw0rd!", "different")

	assert.ErrorIs(t, err, entity.ErrNavigationTimeout)
	assert.ErrorIs(t, err, entity.ErrPasswordMismatch)
	var rerr *entity.RegistrationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "fresh@example.com", rerr.Email)

	assert.False(t, page.IsRegistrationConfirmed(ctx))
	assert.False(t, f.store.HasUser("fresh@example.com"))
}

func TestRegisterPage_DuplicateIsRejected(t *testing.T) {
	f := newFixture(t, 200*time.Millisecond)
	page := f.register()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	err := page.Register(ctx, knownEmail, "Another1!", "Another1!")

	assert.ErrorIs(t, err, entity.ErrNavigationTimeout)
	assert.ErrorIs(t, err, entity.ErrDuplicateRegistration)
	assert.NotErrorIs(t, err, entity.ErrPasswordMismatch)
}

func TestRegisterPage_ConfirmationNoOps(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	page := f.register()
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, f.baseURL))
	before := page.CurrentURL()

	start := time.Now()
	for i := 0; i < 5; i++ {
		link, err := page.GetEmailConfirmationLink(ctx)
		require.NoError(t, err)
		assert.Empty(t, link)
		require.NoError(t, page.ConfirmAccount(ctx))
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, before, page.CurrentURL())
	assert.Zero(t, f.store.ActiveSessions())
}

func TestBase_NavigateRejectsInvalidBase(t *testing.T) {
	f := newFixture(t, time.Second)
	err := f.login().Navigate(context.Background(), "not a url")
	assert.ErrorIs(t, err, entity.ErrInvalidURL)
}
