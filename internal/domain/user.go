package domain

import "time"

// Role es el rol de autorizacion de un usuario.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid indica si el rol pertenece a la enumeracion conocida.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User es el registro canonico de identidad.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	AuthProvider string    `json:"auth_provider,omitempty"`
	AuthSubject  string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword indica si la cuenta admite login con contrasena.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// IsLinked indica si la cuenta tiene una identidad externa asociada.
func (u User) IsLinked() bool {
	return u.AuthProvider != "" && u.AuthSubject != ""
}

// ExternalProfile es la identidad devuelta por un proveedor OAuth.
type ExternalProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
