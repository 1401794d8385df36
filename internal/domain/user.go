package domain

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTecnico Role = "tecnico"
	RoleUsuario Role = "usuario"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTecnico, RoleUsuario:
		return true
	}
	return false
}

// User is an account allowed to sign in to the inventory.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"rol"`
	Active       bool       `json:"activo"`
	CreatedAt    time.Time  `json:"fecha_creacion"`
	LastAccessAt *time.Time `json:"fecha_ultimo_acceso"`
}
