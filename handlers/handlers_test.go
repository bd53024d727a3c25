package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicport/portal/handlers"
	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
	"github.com/clinicport/portal/store"
	"github.com/clinicport/portal/store/storetest"
)

type env struct {
	app      *fiber.App
	patients *storetest.Principals
	doctors  *storetest.Principals
	admins   *storetest.Principals
	sessions *storetest.Sessions
	carts    *storetest.Carts
	orders   *storetest.Orders
}

func newEnv(t *testing.T) *env {
	t.Helper()
	env := &env{
		patients: storetest.NewPrincipals(models.KindPatient),
		doctors:  storetest.NewPrincipals(models.KindPractitioner),
		admins:   storetest.NewPrincipals(models.KindAdministrator),
		sessions: storetest.NewSessions(),
		carts:    storetest.NewCarts(),
		orders:   storetest.NewOrders(),
	}

	registry := store.NewRegistry(env.patients, env.doctors, env.admins)
	secret := []byte("test-secret")

	h := handlers.New(handlers.Config{
		Registry:     registry,
		Sessions:     env.sessions,
		Carts:        env.carts,
		Orders:       env.orders,
		Tests:        storetest.NewTests(),
		Products:     storetest.NewProducts(),
		Appointments: storetest.NewAppointments(),
		SessionKey:   secret,
		SessionIdle:  time.Minute,
	})
	auth := &middleware.Auth{
		Sessions:    env.sessions,
		Registry:    registry,
		Secret:      secret,
		IdleTimeout: time.Minute,
	}

	env.app = fiber.New()
	handlers.Register(env.app, h, auth)
	return env
}

func (e *env) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.CookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (e *env) registerPatient(t *testing.T, username string) *http.Cookie {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/register", fiber.Map{
		"username": username,
		"password": "pw1",
		"name":     "Test Patient",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return sessionCookie(t, resp)
}

func TestRegisterEstablishesSession(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "alice")

	resp, body := env.do(t, http.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, string(models.KindPatient), body["kind"])
	assert.NotContains(t, body, "password")
}

func TestRegisterDuplicateUsernameIsConflict(t *testing.T) {
	env := newEnv(t)
	env.registerPatient(t, "alice")

	resp, body := env.do(t, http.MethodPost, "/register", fiber.Map{
		"username": "alice",
		"password": "other",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "username already taken", body["error"])
}

// Wrong password and unknown username must be the same outcome.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newEnv(t)
	env.registerPatient(t, "alice")

	wrongPw, wrongPwBody := env.do(t, http.MethodPost, "/login", fiber.Map{
		"username": "alice",
		"password": "nope",
	}, nil)
	noUser, noUserBody := env.do(t, http.MethodPost, "/login", fiber.Map{
		"username": "nobody",
		"password": "nope",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, noUser.StatusCode)
	assert.Equal(t, wrongPwBody, noUserBody)
}

// A username living in the admin store is not a patient; the patient login
// route must not find it.
func TestLoginIsScopedToTheRoutesKind(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/admin/register", fiber.Map{
		"username": "root",
		"password": "adminpw",
		"phoneNo":  "555-0100",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/login", fiber.Map{
		"username": "root",
		"password": "adminpw",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid username or password", body["error"])
}

func TestLoginAfterLogout(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "alice")

	resp, _ := env.do(t, http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// The old cookie no longer resolves.
	resp, _ = env.do(t, http.MethodGet, "/profile", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/login", fiber.Map{
		"username": "alice",
		"password": "pw1",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sessionCookie(t, resp)
}

func TestLogoutWithStaleCookieSucceeds(t *testing.T) {
	env := newEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/logout", nil, &http.Cookie{
		Name:  middleware.CookieName,
		Value: "stale-garbage",
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func addToCart(t *testing.T, env *env, cookie *http.Cookie, itemID string, cost float64, qty int) map[string]any {
	t.Helper()
	resp, body := env.do(t, http.MethodPost, "/addToCart", fiber.Map{
		"itemId":   itemID,
		"name":     "Item " + itemID,
		"unitCost": cost,
		"quantity": qty,
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body
}

// The end-to-end scenario: register, merge two adds of the same item, check
// out, verify the order total and the cart's disappearance.
func TestPatientCartCheckoutScenario(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "alice")

	addToCart(t, env, cookie, "med1", 10, 2)
	addToCart(t, env, cookie, "med1", 10, 3)

	resp, body := env.do(t, http.MethodGet, "/cart", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "med1", line["itemId"])
	assert.EqualValues(t, 5, line["quantity"])
	assert.EqualValues(t, 50, body["total"])

	resp, order := env.do(t, http.MethodPost, "/checkout", fiber.Map{}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 50, order["total"])
	assert.NotEmpty(t, order["orderNo"])

	resp, body = env.do(t, http.MethodGet, "/cart", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["empty"])
	assert.Empty(t, body["items"])

	assert.Equal(t, 1, env.orders.Count())
}

func TestFirstAddCreatesCartWithThatLine(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "bob")

	body := addToCart(t, env, cookie, "med7", 2.5, 4)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "med7", line["itemId"])
	assert.EqualValues(t, 4, line["quantity"])
	assert.EqualValues(t, 2.5, line["unitCost"])
}

func TestCheckoutEmptyCartIsUserError(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "alice")

	resp, body := env.do(t, http.MethodPost, "/checkout", fiber.Map{}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "cart is empty", body["error"])
	assert.Equal(t, 0, env.orders.Count())
}

func TestAddToCartRejectsBadQuantity(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "alice")

	resp, _ := env.do(t, http.MethodPost, "/addToCart", fiber.Map{
		"itemId":   "med1",
		"unitCost": 10,
		"quantity": 0,
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/addToCart", fiber.Map{
		"unitCost": 10,
		"quantity": 1,
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartRequiresPatientSession(t *testing.T) {
	env := newEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/cart", nil, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// An authenticated practitioner is forbidden, not redirected.
	resp, _ = env.do(t, http.MethodPost, "/doctor/register", fiber.Map{
		"username": "drwho",
		"password": "pw1",
		"fees":     500.0,
		"category": "cardiology",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doctorCookie := sessionCookie(t, resp)

	resp, body := env.do(t, http.MethodGet, "/cart", nil, doctorCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", body["error"])
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestAdminCatalogFlow(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/admin/register", fiber.Map{
		"username": "root",
		"password": "adminpw",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	adminCookie := sessionCookie(t, resp)

	resp, created := env.do(t, http.MethodPost, "/admin/addTest", fiber.Map{
		"name": "Blood Panel",
		"cost": 120.0,
	}, adminCookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Blood Panel", created["name"])

	// The catalog is public.
	resp, body := env.do(t, http.MethodGet, "/services", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tests := body["tests"].([]any)
	require.Len(t, tests, 1)

	// But writing it is not.
	resp, _ = env.do(t, http.MethodPost, "/admin/addTest", fiber.Map{
		"name": "X-Ray",
		"cost": 80.0,
	}, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestProfileEditAndDelete(t *testing.T) {
	env := newEnv(t)
	cookie := env.registerPatient(t, "alice")

	resp, _ := env.do(t, http.MethodPost, "/profile/edit", fiber.Map{
		"address": "12 New Street",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "12 New Street", body["address"])
	assert.Equal(t, "alice", body["username"])
	id := body["id"].(string)

	// Deleting someone else's id is forbidden.
	resp, _ = env.do(t, http.MethodGet, "/profile/delete/ffffffffffffffffffffffff", nil, cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/profile/delete/"+id, nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// The account and the session are both gone.
	resp, _ = env.do(t, http.MethodGet, "/profile", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/login", fiber.Map{
		"username": "alice",
		"password": "pw1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestScheduleAppointmentsAreOwnerScoped(t *testing.T) {
	env := newEnv(t)
	alice := env.registerPatient(t, "alice")
	bob := env.registerPatient(t, "bob")

	resp, _ := env.do(t, http.MethodPost, "/schedule/test", fiber.Map{
		"name": "Blood Panel",
		"date": "2026-09-01",
		"time": "10:30",
	}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/appointments/tests", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["appointments"].([]any), 1)

	resp, body = env.do(t, http.MethodGet, "/appointments/tests", nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["appointments"])
}

func TestDoctorDirectoryHidesCredentials(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/doctor/register", fiber.Map{
		"username": "drwho",
		"password": "pw1",
		"name":     "Dr. Who",
		"fees":     500.0,
		"category": "cardiology",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := env.registerPatient(t, "alice")
	resp, body := env.do(t, http.MethodGet, "/schedule/doctor", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doctors := body["doctors"].([]any)
	require.Len(t, doctors, 1)
	doctor := doctors[0].(map[string]any)
	assert.Equal(t, "drwho", doctor["username"])
	assert.EqualValues(t, 500, doctor["fees"])
	assert.NotContains(t, doctor, "password")
}
