package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CookieName is the cookie carrying the signed session id.
	CookieName = "sid"
	localsKey  = "session"
)

// Manager loads the caller's session before the handler chain and persists it afterwards.
type Manager struct {
	store  Store
	codec  *TokenCodec
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager constructs a session manager.
func NewManager(store Store, codec *TokenCodec, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{store: store, codec: codec, ttl: ttl, logger: logger}
}

// Middleware attaches the session to the request and commits it once the chain returns.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := m.load(c)
		c.Locals(localsKey, sess)

		err := c.Next()

		if commitErr := m.commit(c, sess); commitErr != nil {
			m.logger.Error("session commit failed", zap.Error(commitErr))
			if err == nil {
				err = commitErr
			}
		}
		return err
	}
}

// Current returns the session attached to the request, creating a detached
// anonymous one when the middleware is not installed.
func Current(c *fiber.Ctx) *Session {
	if sess, ok := c.Locals(localsKey).(*Session); ok && sess != nil {
		return sess
	}
	sess := &Session{}
	c.Locals(localsKey, sess)
	return sess
}

func (m *Manager) load(c *fiber.Ctx) *Session {
	token := c.Cookies(CookieName)
	if token == "" {
		return &Session{}
	}
	id, err := m.codec.Decode(token)
	if err != nil {
		m.logger.Debug("discarding session cookie", zap.Error(err))
		return &Session{}
	}
	sess, err := m.store.Load(c.UserContext(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("session load failed", zap.Error(err))
		}
		return &Session{}
	}
	return sess
}

func (m *Manager) commit(c *fiber.Ctx, sess *Session) error {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	if sess.destroyedID != "" {
		if err := m.store.Delete(ctx, sess.destroyedID); err != nil {
			return err
		}
		sess.destroyedID = ""
		if !sess.dirty {
			c.ClearCookie(CookieName)
			return nil
		}
	}
	if !sess.dirty {
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return err
	}
	sess.dirty = false

	token, err := m.codec.Encode(sess.ID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
