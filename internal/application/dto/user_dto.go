package dto

import (
	"time"

	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// UserResponse salida de un usuario (sin hash de contraseña).
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id,omitempty"`
	ShopID    string    `json:"shop_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromEntity mapea entity.User a UserResponse.
func UserFromEntity(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		ShopID:    u.ShopID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
