package entity

import "time"

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User usuario del sistema. TenantID vacío solo para SUPER_ADMIN de plataforma.
type User struct {
	ID             string
	TenantID       string
	ShopID         string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Role           Role
	Status         string
	SessionVersion int // se incrementa para invalidar tokens emitidos
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive indica si el usuario puede autenticarse.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Identity proyecta el usuario a la identidad de la solicitud.
func (u *User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		TenantID: u.TenantID,
		ShopID:   u.ShopID,
		Role:     u.Role,
		Name:     u.Name,
		Email:    u.Email,
	}
}
