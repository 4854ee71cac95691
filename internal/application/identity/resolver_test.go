package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/internal/domain/entity"
	"github.com/jhoicas/RetailOps-api/pkg/jwt"
)

type stubUsers struct {
	users map[string]*entity.User
	err   error
}

func (s *stubUsers) FindUserByID(_ context.Context, id string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

var cfg = Config{Secret: "test-secret", Issuer: "retailops", ExpMinutes: 30}

func activeUser() *entity.User {
	return &entity.User{
		ID: "u1", TenantID: "t1", ShopID: "s1", Role: entity.RoleFieldWorker,
		Status: entity.UserStatusActive, SessionVersion: 2, Name: "Ana",
	}
}

func TestResolve_TokenValido(t *testing.T) {
	u := activeUser()
	r := NewResolver(&stubUsers{users: map[string]*entity.User{"u1": u}}, cfg)

	tok, _, err := r.Issue(u)
	require.NoError(t, err)

	id, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "t1", id.TenantID)
	assert.Equal(t, "s1", id.ShopID)
	assert.Equal(t, entity.RoleFieldWorker, id.Role)
}

func TestResolve_RolSaleDelAlmacen(t *testing.T) {
	u := activeUser()
	users := &stubUsers{users: map[string]*entity.User{"u1": u}}
	r := NewResolver(users, cfg)
	tok, _, err := r.Issue(u)
	require.NoError(t, err)

	// cambio de rol después de emitir el token
	u.Role = entity.RoleManager
	id, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, id.Role)
}

func TestResolve_Rechazos(t *testing.T) {
	now := time.Now()
	u := activeUser()
	valid, _, err := jwt.Generate(cfg.Secret, "u1", 2, cfg.Issuer, 30, now)
	require.NoError(t, err)
	expired, _, err := jwt.Generate(cfg.Secret, "u1", 2, cfg.Issuer, 1, now.Add(-time.Hour))
	require.NoError(t, err)
	stale, _, err := jwt.Generate(cfg.Secret, "u1", 1, cfg.Issuer, 30, now)
	require.NoError(t, err)
	unknown, _, err := jwt.Generate(cfg.Secret, "u9", 1, cfg.Issuer, 30, now)
	require.NoError(t, err)

	cases := map[string]struct {
		token string
		mut   func(*entity.User)
	}{
		"vacío":            {token: ""},
		"basura":           {token: "abc.def.ghi"},
		"expirado":         {token: expired},
		"sesión revocada":  {token: stale},
		"usuario inexist.": {token: unknown},
		"inactivo":         {token: valid, mut: func(u *entity.User) { u.Status = entity.UserStatusInactive }},
		"sin tenant":       {token: valid, mut: func(u *entity.User) { u.TenantID = "" }},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cp := *u
			if tc.mut != nil {
				tc.mut(&cp)
			}
			r := NewResolver(&stubUsers{users: map[string]*entity.User{"u1": &cp}}, cfg)
			_, err := r.Resolve(context.Background(), tc.token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestResolve_SuperAdminSinTenant(t *testing.T) {
	sa := &entity.User{ID: "root", Role: entity.RoleSuperAdmin, Status: entity.UserStatusActive, SessionVersion: 1}
	r := NewResolver(&stubUsers{users: map[string]*entity.User{"root": sa}}, cfg)
	tok, _, err := r.Issue(sa)
	require.NoError(t, err)

	id, err := r.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.False(t, id.HasTenant())
}

func TestResolve_ErrorDeAlmacenNoEsUnauthenticated(t *testing.T) {
	u := activeUser()
	boom := errors.New("db caída")
	r := NewResolver(&stubUsers{err: boom}, cfg)
	tok, _, err := r.Issue(u)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
}
