package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/adapters/memkv"
	domainauth "github.com/driftline/driftline/internal/domain/auth"
	httpx "github.com/driftline/driftline/internal/http"
	mockauth "github.com/driftline/driftline/internal/mocks/auth"
	"github.com/driftline/driftline/internal/session"
	"github.com/driftline/driftline/internal/testutil"
)

// appFixture drives the full router the way a browser would, carrying
// cookies between requests.
type appFixture struct {
	t        *testing.T
	handler  http.Handler
	identity *mockauth.FakeIdentityProvider
	feed     *mockauth.FakeFeedLister
	audit    *mockauth.MemoryAuditStore
	cookies  map[string]*http.Cookie
}

func newApp(t *testing.T) *appFixture {
	t.Helper()
	identity := &mockauth.FakeIdentityProvider{
		Credential: testutil.FreshToken("alice"),
		Profile:    domainauth.Profile{Username: "alice", Role: domainauth.RoleUser, IsActive: true},
	}
	feed := &mockauth.FakeFeedLister{}
	audit := &mockauth.MemoryAuditStore{}

	mgr := session.NewManager(session.ManagerOptions{KV: memkv.New(), Audit: audit})
	handler := httpx.NewRouter(httpx.RouterServices{
		Sessions: mgr,
		Identity: identity,
		Feed:     feed,
	})

	return &appFixture{
		t:        t,
		handler:  handler,
		identity: identity,
		feed:     feed,
		audit:    audit,
		cookies:  map[string]*http.Cookie{},
	}
}

func (a *appFixture) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range a.cookies {
		if c.Value != "" {
			req.AddCookie(c)
		}
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return rec
}

func (a *appFixture) login() {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret"}`)
	require.Equal(a.t, http.StatusOK, rec.Code)
}

func (a *appFixture) status() map[string]any {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/api/auth/status", "")
	require.Equal(a.t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestStatusFreshDevice(t *testing.T) {
	app := newApp(t)

	out := app.status()

	assert.Equal(t, "unauthenticated", out["state"])
	assert.Nil(t, out["profile"])

	_, hasDevice := app.cookies[httpx.DeviceCookie]
	assert.True(t, hasDevice, "first contact issues a device cookie")
}

func TestLoginSetsCredentialCookieAndState(t *testing.T) {
	app := newApp(t)

	rec := app.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cred, ok := app.cookies[httpx.CredentialCookie]
	require.True(t, ok, "login must mirror the credential into the cookie")
	assert.Equal(t, app.identity.Credential, cred.Value)

	out := app.status()
	assert.Equal(t, "authenticated", out["state"])
	profile, ok := out["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", profile["username"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newApp(t)
	app.identity.Err = domainauth.ErrUnauthorized

	rec := app.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, ok := app.cookies[httpx.CredentialCookie]
	assert.False(t, ok)
	assert.Equal(t, "unauthenticated", app.status()["state"])
}

func TestLogoutClearsSession(t *testing.T) {
	app := newApp(t)
	app.login()

	rec := app.do(http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := app.cookies[httpx.CredentialCookie]
	assert.False(t, ok, "logout must expire the credential cookie")
	assert.Equal(t, "unauthenticated", app.status()["state"])
}

func TestFeedRequiresAuth(t *testing.T) {
	app := newApp(t)
	app.status() // establish device

	rec := app.do(http.MethodGet, "/api/feed", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, app.feed.Credentials(), "unauthenticated requests never reach the content API")
}

func TestFeedReturnsPosts(t *testing.T) {
	app := newApp(t)
	app.login()
	app.feed.Posts = nil

	rec := app.do(http.MethodGet, "/api/feed", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	require.Len(t, app.feed.Credentials(), 1)
	assert.Equal(t, app.identity.Credential, app.feed.Credentials()[0])
}

func TestFeed401ForcesLogout(t *testing.T) {
	app := newApp(t)
	app.login()
	app.feed.Err = domainauth.ErrUnauthorized

	rec := app.do(http.MethodGet, "/api/feed", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, ok := app.cookies[httpx.CredentialCookie]
	assert.False(t, ok, "forced logout must expire the credential cookie")
	assert.Equal(t, "unauthenticated", app.status()["state"])
}

func TestFeed403IsInformationalOnly(t *testing.T) {
	app := newApp(t)
	app.login()
	app.feed.Err = domainauth.ErrForbidden

	rec := app.do(http.MethodGet, "/api/feed", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, ok := app.cookies[httpx.CredentialCookie]
	assert.True(t, ok, "a permission notice must not clear the credential")
	assert.Equal(t, "authenticated", app.status()["state"])
}

func TestGuardRedirects(t *testing.T) {
	t.Run("unauthenticated root goes to explore", func(t *testing.T) {
		app := newApp(t)
		rec := app.do(http.MethodGet, "/", "")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/explore", rec.Header().Get("Location"))
	})

	t.Run("unauthenticated protected goes to welcome", func(t *testing.T) {
		app := newApp(t)
		rec := app.do(http.MethodGet, "/feed", "")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/welcome", rec.Header().Get("Location"))
	})

	t.Run("unauthenticated explore renders", func(t *testing.T) {
		app := newApp(t)
		rec := app.do(http.MethodGet, "/explore", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-page="explore"`)
	})

	t.Run("authenticated welcome goes home", func(t *testing.T) {
		app := newApp(t)
		app.login()
		rec := app.do(http.MethodGet, "/welcome", "")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("authenticated root renders", func(t *testing.T) {
		app := newApp(t)
		app.login()
		rec := app.do(http.MethodGet, "/", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-auth-state="authenticated"`)
	})
}

// A stale credential cookie passes the presence-only edge check but the
// guard, seeing the resolved (unauthenticated) state, still redirects.
func TestStaleCookieOnAdminPath(t *testing.T) {
	app := newApp(t)
	app.cookies[httpx.CredentialCookie] = &http.Cookie{
		Name:  httpx.CredentialCookie,
		Value: testutil.ExpiredToken("alice"),
	}

	rec := app.do(http.MethodGet, "/admin", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/welcome", rec.Header().Get("Location"))
}

func TestAdminPageRoleNotice(t *testing.T) {
	app := newApp(t)
	app.login() // role user, not admin

	rec := app.do(http.MethodGet, "/admin", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-page="access-denied"`)
	// The notice is informational: the session survives.
	assert.Equal(t, "authenticated", app.status()["state"])
}

func TestStaticAssetsServedFromEmbed(t *testing.T) {
	app := newApp(t)

	rec := app.do(http.MethodGet, "/static/js/app.js", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dataset.authState")
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestHealthz(t *testing.T) {
	app := newApp(t)
	rec := app.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
