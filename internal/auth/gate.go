package auth

import (
	"time"

	"github.com/spec-kit/it-inventory/internal/domain"
)

// Redirect targets used by the gate.
const (
	LoginPath = "/logup"
	HomePath  = "/index"
)

// DefaultSessionMaxAge is the sliding idle window for an authenticated session.
const DefaultSessionMaxAge = 30 * time.Minute

// Reason explains why the gate rejected a request.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNoSession      Reason = "no_session"
	ReasonAccountDeleted Reason = "account_deleted"
	ReasonExpired        Reason = "expired"
	ReasonForbidden      Reason = "forbidden"
)

var reasonMessages = map[Reason]string{
	ReasonNoSession:      "Debes iniciar sesión para acceder a esta página.",
	ReasonAccountDeleted: "Tu cuenta ha sido eliminada. Por favor, vuelve a iniciar sesión.",
	ReasonExpired:        "Tu sesión ha expirado. Por favor, vuelve a iniciar sesión.",
	ReasonForbidden:      "No tienes permisos para acceder a esta página.",
}

// Decision is the outcome of a gate check. Admitted decisions carry the
// refreshed session timestamp; rejections carry a reason and a redirect target.
type Decision struct {
	Admit          bool
	RefreshedAt    time.Time
	Reason         Reason
	Redirect       string
	DestroySession bool
}

// Message is the flash text shown for a rejection.
func (d Decision) Message() string {
	return reasonMessages[d.Reason]
}

// SessionState is what the gate knows about the caller when checking validity.
type SessionState struct {
	Authenticated bool
	AccountExists bool
	CreatedAt     time.Time
}

// SessionPolicy decides session validity with a sliding expiry window.
type SessionPolicy struct {
	MaxAge time.Duration
}

// Evaluate applies, in order: missing session, deleted account, expiry.
// A session without a creation time counts as created at now.
func (p SessionPolicy) Evaluate(state SessionState, now time.Time) Decision {
	if !state.Authenticated {
		return reject(ReasonNoSession, LoginPath, false)
	}
	if !state.AccountExists {
		return reject(ReasonAccountDeleted, LoginPath, true)
	}

	maxAge := p.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	createdAt := state.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if now.Sub(createdAt) > maxAge {
		return reject(ReasonExpired, LoginPath, true)
	}
	return Decision{Admit: true, RefreshedAt: now}
}

// CheckRole admits role only if it belongs to allowed. An empty allow-list admits everyone.
func CheckRole(role domain.Role, allowed []domain.Role) Decision {
	if len(allowed) == 0 {
		return Decision{Admit: true}
	}
	for _, r := range allowed {
		if r == role {
			return Decision{Admit: true}
		}
	}
	return reject(ReasonForbidden, HomePath, false)
}

func reject(reason Reason, redirect string, destroy bool) Decision {
	return Decision{Reason: reason, Redirect: redirect, DestroySession: destroy}
}
