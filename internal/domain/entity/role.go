package entity

import (
	"fmt"
	"strings"
)

// Role rol de un usuario. Conjunto cerrado: cualquier otro valor es inválido.
type Role string

const (
	RoleFieldWorker    Role = "FIELD_WORKER"
	RoleFieldAgent     Role = "FIELD_AGENT"
	RoleFieldAssistant Role = "FIELD_ASSISTANT"
	RoleManager        Role = "MANAGER"
	RoleAdmin          Role = "ADMIN"
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleAuditor        Role = "AUDITOR"
)

// AllRoles devuelve todos los roles válidos.
func AllRoles() []Role {
	return []Role{
		RoleFieldWorker, RoleFieldAgent, RoleFieldAssistant,
		RoleManager, RoleAdmin, RoleSuperAdmin, RoleAuditor,
	}
}

// ParseRole interpreta el rol almacenado. No hay valor por defecto.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("rol desconocido %q", s)
	}
	return r, nil
}

// Valid indica si r pertenece al conjunto cerrado de roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFieldWorker, RoleFieldAgent, RoleFieldAssistant,
		RoleManager, RoleAdmin, RoleSuperAdmin, RoleAuditor:
		return true
	}
	return false
}

// IsFieldClass indica si el rol opera en campo (visibilidad limitada a su tienda y a sí mismo).
func (r Role) IsFieldClass() bool {
	switch r {
	case RoleFieldWorker, RoleFieldAgent, RoleFieldAssistant:
		return true
	}
	return false
}

// FieldRoles roles de campo.
func FieldRoles() []Role {
	return []Role{RoleFieldWorker, RoleFieldAgent, RoleFieldAssistant}
}
