package entity

// Identity quién hace la solicitud, tal como lo resolvió el almacén de usuarios (no el token).
type Identity struct {
	UserID   string
	TenantID string // vacío solo para SUPER_ADMIN de plataforma
	ShopID   string // vacío si el usuario no está asignado a una tienda
	Role     Role
	Name     string
	Email    string
}

// HasTenant indica si la identidad está ligada a un tenant.
func (i Identity) HasTenant() bool {
	return i.TenantID != ""
}
