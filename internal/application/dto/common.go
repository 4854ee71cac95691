package dto

import "encoding/json"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" json:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ListResponse listado paginado genérico.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// NewList arma un ListResponse a partir de los ítems de la página.
func NewList[T any](items []T, page PageRequest) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items: items,
		Page:  PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope forma uniforme de toda respuesta de la API.
// Un éxito siempre lleva la clave data (null si no hay payload); un error nunca la lleva.
type Envelope struct {
	Success       bool           `json:"success"`
	Data          any            `json:"data,omitempty"`
	Error         *ErrorResponse `json:"error,omitempty"`
	Status        int            `json:"status"`
	CorrelationID string         `json:"correlation_id"`
}

// MarshalJSON aplica la regla de data según Success.
func (e Envelope) MarshalJSON() ([]byte, error) {
	type plain Envelope
	if !e.Success {
		e.Data = nil
		return json.Marshal(plain(e))
	}
	return json.Marshal(struct {
		plain
		Data any `json:"data"`
	}{plain: plain(e), Data: e.Data})
}
