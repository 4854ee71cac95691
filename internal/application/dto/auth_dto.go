package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse token emitido y datos del usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// MeResponse identidad resuelta y estado de suscripción efectivo.
type MeResponse struct {
	User         UserResponse `json:"user"`
	Subscription string       `json:"subscription,omitempty"`
	Scope        string       `json:"scope"`
}
