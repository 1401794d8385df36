package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
)

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret")
	token, err := codec.Encode("abc-123")
	require.NoError(t, err)

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)

	_, err = NewTokenCodec("other").Decode(token)
	assert.Error(t, err)

	_, err = codec.Decode(token + "x")
	assert.Error(t, err)
}

func TestFlashesArePoppedOnce(t *testing.T) {
	sess := &Session{}
	sess.AddFlash(FlashError, "uno")
	sess.AddFlash(FlashError, "dos")

	got := sess.Flashes()
	assert.Equal(t, []string{"uno", "dos"}, got[FlashError])
	assert.Empty(t, sess.Flashes())
}

func TestDestroyKeepsLaterFlash(t *testing.T) {
	sess := &Session{ID: "old", User: &User{ID: 1, Role: domain.RoleAdmin}, CreatedAt: time.Now()}
	sess.Destroy()
	sess.AddFlash(FlashError, "expirada")

	assert.False(t, sess.Authenticated())
	assert.Equal(t, "old", sess.destroyedID)
	assert.Empty(t, sess.ID)
	assert.True(t, sess.dirty)
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), &Session{ID: "a"}, time.Minute))
	_, err := store.Load(context.Background(), "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func newTestApp(store Store) *fiber.App {
	mgr := NewManager(store, NewTokenCodec("secret"), 30*time.Minute, zap.NewNop())
	app := fiber.New()
	app.Use(mgr.Middleware())
	app.Get("/login", func(c *fiber.Ctx) error {
		Current(c).Login(User{ID: 5, Username: "ana", Role: domain.RoleTecnico}, time.Now())
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		sess := Current(c)
		if !sess.Authenticated() {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(sess.User.Username)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		Current(c).Destroy()
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestManagerPersistsAcrossRequests(t *testing.T) {
	store := NewMemoryStore()
	app := newTestApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	cookie := sessionCookie(t, resp)
	assert.Equal(t, 1, store.Len())

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(cookie)
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	req = httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestManagerIgnoresForgedCookie(t *testing.T) {
	app := newTestApp(NewMemoryStore())

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnonymousRequestsAreNotStored(t *testing.T) {
	store := NewMemoryStore()
	app := newTestApp(store)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, resp.Cookies())
}
