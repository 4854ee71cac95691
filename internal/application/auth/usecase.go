package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
)

// UserFinder búsqueda por email sin alcance.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

// TokenIssuer firma tokens de sesión.
type TokenIssuer interface {
	Issue(u *entity.User) (string, time.Time, error)
}

// dummyHash se compara cuando el email no existe para igualar el tiempo de respuesta.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z7F1zQbGy8b2wWcKq9dA8uC2")

// AuthUseCase login con email y contraseña.
type AuthUseCase struct {
	users  UserFinder
	tokens TokenIssuer
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users UserFinder, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{users: users, tokens: tokens}
}

// Login verifica email/password y emite un token. Credenciales inválidas o usuario inactivo
// responden igual (ErrUnauthenticated) para no revelar qué emails existen.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthenticated
	}
	token, exp, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: emitir token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.UserFromEntity(user),
	}, nil
}
