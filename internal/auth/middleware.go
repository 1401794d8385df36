package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/domain"
	"github.com/spec-kit/it-inventory/internal/observability"
	"github.com/spec-kit/it-inventory/internal/session"
	apperrors "github.com/spec-kit/it-inventory/pkg/util"
)

const principalKey = "auth_principal"

// UserLookup resolves the account behind a session.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Gate enforces session validity and role allow-lists ahead of handlers.
type Gate struct {
	users   UserLookup
	policy  SessionPolicy
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewGate constructs the access gate.
func NewGate(users UserLookup, policy SessionPolicy, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	return &Gate{users: users, policy: policy, logger: logger, metrics: metrics, now: time.Now}
}

// Authenticate admits requests carrying a live session for an existing account.
func (g *Gate) Authenticate(c *fiber.Ctx) error {
	sess := session.Current(c)
	state := SessionState{Authenticated: sess.Authenticated(), CreatedAt: sess.CreatedAt}

	if state.Authenticated {
		_, err := g.users.GetByID(c.UserContext(), sess.User.ID)
		switch {
		case err == nil:
			state.AccountExists = true
		case apperrors.IsNotFound(err):
			state.AccountExists = false
		default:
			g.logger.Error("session user lookup failed", zap.Int64("user_id", sess.User.ID), zap.Error(err))
			return apperrors.NewInternalError("", err)
		}
	}

	decision := g.policy.Evaluate(state, g.now())
	if !decision.Admit {
		return g.reject(c, sess, decision)
	}

	sess.Touch(decision.RefreshedAt)
	c.Locals(principalKey, sess.User)
	return c.Next()
}

func (g *Gate) reject(c *fiber.Ctx, sess *session.Session, decision Decision) error {
	if decision.DestroySession {
		sess.Destroy()
	}
	sess.AddFlash(session.FlashError, decision.Message())
	g.metrics.RecordGateReject(string(decision.Reason))
	g.logger.Debug("access rejected",
		zap.String("reason", string(decision.Reason)),
		zap.String("path", c.Path()),
	)
	return c.Redirect(decision.Redirect)
}

// PrincipalFromContext retrieves the authenticated user.
func PrincipalFromContext(c *fiber.Ctx) (*session.User, bool) {
	principal, ok := c.Locals(principalKey).(*session.User)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}
