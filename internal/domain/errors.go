package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthenticated   = errors.New("no autenticado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrTenantLocked      = errors.New("suscripción bloqueada: solo lectura")
	ErrRateLimited       = errors.New("demasiadas solicitudes")
	ErrGeofenceViolation = errors.New("ubicación fuera del radio permitido de la tienda")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	// ErrTxConflict marca fallos de serialización o deadlock; la operación puede reintentarse.
	ErrTxConflict = fmt.Errorf("%w: conflicto de concurrencia", ErrConflict)
)

// Code es el código de error estable expuesto al cliente.
type Code string

const (
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeTenantLocked      Code = "TENANT_LOCKED"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeGeofenceViolation Code = "GEOFENCE_VIOLATION"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
)

// ValidationError error de validación de un campo concreto.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RateLimitError indica que se excedió el límite; RetryAfter es el tiempo hasta que se libera la ventana.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: reintente en %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// InsufficientStockError detalla el producto que no alcanzó.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// CodeOf traduce cualquier error al código estable. Lo desconocido es INTERNAL.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrTenantLocked):
		return CodeTenantLocked
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrGeofenceViolation):
		return CodeGeofenceViolation
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}
