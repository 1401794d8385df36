package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/observability"
	"github.com/spec-kit/it-inventory/internal/session"
)

type fakeUsers struct {
	users map[int64]*domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

type gateHarness struct {
	app     *fiber.App
	gate    *Gate
	users   *fakeUsers
	store   *session.MemoryStore
	metrics *observability.Metrics
}

func newGateHarness(t *testing.T) *gateHarness {
	t.Helper()
	store := session.NewMemoryStore()
	users := &fakeUsers{users: map[int64]*domain.User{
		1: {ID: 1, Username: "ana", Role: domain.RoleAdmin},
		2: {ID: 2, Username: "luis", Role: domain.RoleUsuario},
	}}
	metrics := observability.NewMetrics()
	gate := NewGate(users, SessionPolicy{MaxAge: 30 * time.Minute}, zap.NewNop(), metrics)
	manager := session.NewManager(store, session.NewTokenCodec("test-secret"), 60*time.Minute, zap.NewNop())

	app := fiber.New()
	app.Use(manager.Middleware())
	app.Get("/login/:id", func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")
		u := users.users[int64(id)]
		session.Current(c).Login(session.User{ID: u.ID, Username: u.Username, Role: u.Role}, time.Now())
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/flash", func(c *fiber.Ctx) error {
		return c.JSON(session.Current(c).Flashes())
	})
	app.Get("/admin", append(gate.Protect(AdminOnly...), func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(p.Username)
	})...)

	return &gateHarness{app: app, gate: gate, users: users, store: store, metrics: metrics}
}

func (h *gateHarness) get(t *testing.T, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c.Value
		}
	}
	return ""
}

func TestAuthenticateRedirectsAnonymous(t *testing.T) {
	h := newGateHarness(t)

	resp := h.get(t, "/admin", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))

	flash := h.get(t, "/flash", sessionCookie(resp))
	body, _ := io.ReadAll(flash.Body)
	assert.Contains(t, string(body), "Debes iniciar sesión")
	assert.Equal(t, int64(1), h.metrics.Snapshot().GateRejects[string(ReasonNoSession)])
}

func TestAuthenticateAdmitsAndSlidesWindow(t *testing.T) {
	h := newGateHarness(t)
	cookie := sessionCookie(h.get(t, "/login/1", ""))
	require.NotEmpty(t, cookie)

	resp := h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ana", string(body))

	// 20 minutes later the refreshed session is still valid.
	h.gate.now = func() time.Time { return time.Now().Add(20 * time.Minute) }
	resp = h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 40 minutes after login, 20 after the last touch.
	h.gate.now = func() time.Time { return time.Now().Add(40 * time.Minute) }
	resp = h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticateExpiresIdleSession(t *testing.T) {
	h := newGateHarness(t)
	cookie := sessionCookie(h.get(t, "/login/1", ""))

	h.gate.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	resp := h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))

	h.gate.now = time.Now
	resp = h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode, "old session id must be gone")
}

func TestAuthenticateReportsExpiryWhileStoreStillHoldsSession(t *testing.T) {
	h := newGateHarness(t)
	cookie := sessionCookie(h.get(t, "/login/1", ""))
	require.NotEmpty(t, cookie)

	later := func() time.Time { return time.Now().Add(31 * time.Minute) }
	h.store.SetClock(later)
	h.gate.now = later

	resp := h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))
	assert.Equal(t, int64(1), h.metrics.Snapshot().GateRejects[string(ReasonExpired)])
	assert.Zero(t, h.metrics.Snapshot().GateRejects[string(ReasonNoSession)])

	flash := h.get(t, "/flash", sessionCookie(resp))
	body, _ := io.ReadAll(flash.Body)
	assert.Contains(t, string(body), "Tu sesión ha expirado. Por favor, vuelve a iniciar sesión.")
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
	h := newGateHarness(t)
	cookie := sessionCookie(h.get(t, "/login/1", ""))
	delete(h.users.users, 1)

	resp := h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))

	flash := h.get(t, "/flash", sessionCookie(resp))
	body, _ := io.ReadAll(flash.Body)
	assert.Contains(t, string(body), "Tu cuenta ha sido eliminada")
}

func TestRequireRoleRedirectsHome(t *testing.T) {
	h := newGateHarness(t)
	cookie := sessionCookie(h.get(t, "/login/2", ""))

	resp := h.get(t, "/admin", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, HomePath, resp.Header.Get("Location"))
	assert.Equal(t, int64(1), h.metrics.Snapshot().GateRejects[string(ReasonForbidden)])

	// Forbidden keeps the session alive.
	next := sessionCookie(resp)
	if next == "" {
		next = cookie
	}
	flash := h.get(t, "/flash", next)
	body, _ := io.ReadAll(flash.Body)
	assert.Contains(t, string(body), "No tienes permisos")
}
