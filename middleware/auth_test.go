package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
	"github.com/clinicport/portal/store"
	"github.com/clinicport/portal/store/storetest"
)

type guardEnv struct {
	app      *fiber.App
	patients *storetest.Principals
	doctors  *storetest.Principals
	admins   *storetest.Principals
	sessions *storetest.Sessions
	secret   []byte
}

func newGuardEnv(t *testing.T) *guardEnv {
	t.Helper()
	env := &guardEnv{
		patients: storetest.NewPrincipals(models.KindPatient),
		doctors:  storetest.NewPrincipals(models.KindPractitioner),
		admins:   storetest.NewPrincipals(models.KindAdministrator),
		sessions: storetest.NewSessions(),
		secret:   []byte("test-secret"),
	}

	auth := &middleware.Auth{
		Sessions:    env.sessions,
		Registry:    store.NewRegistry(env.patients, env.doctors, env.admins),
		Secret:      env.secret,
		IdleTimeout: time.Minute,
	}

	env.app = fiber.New()
	env.app.Use(auth.Restore)
	env.app.Get("/profile", middleware.RequireAuthenticated(models.KindPatient), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"username": middleware.Current(c).Username})
	})
	env.app.Get("/admin/editTest", middleware.RequireKind(models.KindAdministrator), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return env
}

// session registers a principal, opens a session for it, and returns the
// cookie a browser would carry.
func (e *guardEnv) session(t *testing.T, principals *storetest.Principals, kind models.Kind, username string) (*http.Cookie, string, string) {
	t.Helper()
	id, err := principals.Register(context.Background(), models.Principal{Username: username}, "pw")
	require.NoError(t, err)

	sessionID := "sess-" + username
	require.NoError(t, e.sessions.Create(context.Background(), models.Session{
		ID:          sessionID,
		Kind:        kind,
		PrincipalID: id,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Minute),
	}))

	token, err := middleware.SignSessionID(e.secret, sessionID)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.CookieName, Value: token}, sessionID, id
}

func (e *guardEnv) get(t *testing.T, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	env := newGuardEnv(t)

	resp := env.get(t, "/profile", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAnonymousOnAdminRouteGoesToAdminLogin(t *testing.T) {
	env := newGuardEnv(t)

	resp := env.get(t, "/admin/editTest", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestAuthenticatedPatientPasses(t *testing.T) {
	env := newGuardEnv(t)
	cookie, _, _ := env.session(t, env.patients, models.KindPatient, "alice")

	resp := env.get(t, "/profile", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// A wrong-kind authenticated principal is forbidden, not bounced to some
// other kind's login page.
func TestPractitionerForbiddenOnAdminRoute(t *testing.T) {
	env := newGuardEnv(t)
	cookie, _, _ := env.session(t, env.doctors, models.KindPractitioner, "drwho")

	resp := env.get(t, "/admin/editTest", cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
}

// A token whose principal record has been deleted restores to anonymous and
// drops the orphaned session.
func TestVanishedPrincipalRestoresToAnonymous(t *testing.T) {
	env := newGuardEnv(t)
	cookie, sessionID, principalID := env.session(t, env.patients, models.KindPatient, "ghost")

	require.NoError(t, env.patients.Delete(context.Background(), principalID))

	resp := env.get(t, "/profile", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, env.sessions.Has(sessionID), "orphaned session should be dropped")
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	env := newGuardEnv(t)
	cookie, sessionID, _ := env.session(t, env.patients, models.KindPatient, "sleepy")

	// Force the record past its idle deadline.
	require.NoError(t, env.sessions.Create(context.Background(), models.Session{
		ID:        sessionID,
		Kind:      models.KindPatient,
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	resp := env.get(t, "/profile", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	env := newGuardEnv(t)

	forged, err := middleware.SignSessionID([]byte("other-secret"), "sess-evil")
	require.NoError(t, err)

	resp := env.get(t, "/profile", &http.Cookie{Name: middleware.CookieName, Value: forged})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
