package usecase

import (
	"context"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain/repository"
)

// UserUseCase consultas de usuarios dentro del alcance.
type UserUseCase struct{}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase() *UserUseCase {
	return &UserUseCase{}
}

// Get obtiene un usuario (un rol de campo solo se ve a sí mismo).
func (uc *UserUseCase) Get(ctx context.Context, acc repository.ScopedAccessor, id string) (*dto.UserResponse, error) {
	u, err := acc.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(u)
	return &out, nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, acc repository.ScopedAccessor, page dto.PageRequest) (dto.ListResponse[dto.UserResponse], error) {
	page.DefaultPage()
	list, err := acc.Users().List(ctx, page.Limit, page.Offset)
	if err != nil {
		return dto.ListResponse[dto.UserResponse]{}, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UserFromEntity(u))
	}
	return dto.NewList(out, page), nil
}
