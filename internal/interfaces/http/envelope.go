package http

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain"
)

// localCorrelationID clave en Locals que usa el middleware requestid.
const localCorrelationID = "requestid"

// Attachment respuesta binaria (p. ej. PDF) que no va dentro del envelope.
type Attachment struct {
	ContentType string
	Filename    string
	Body        []byte
}

// CorrelationID id de la solicitud: el de requestid, el del header X-Request-ID o uno nuevo.
func CorrelationID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localCorrelationID).(string); ok && v != "" {
		return v
	}
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(localCorrelationID, id)
	c.Set(fiber.HeaderXRequestID, id)
	return id
}

// StatusOf código HTTP de cada código de error.
func StatusOf(code domain.Code) int {
	switch code {
	case domain.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.CodeForbidden, domain.CodeTenantLocked, domain.CodeGeofenceViolation:
		return fiber.StatusForbidden
	case domain.CodeValidation:
		return fiber.StatusBadRequest
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeRateLimited:
		return fiber.StatusTooManyRequests
	case domain.CodeInsufficientStock, domain.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// messageOf mensaje para el cliente. Solo los errores de validación y de stock exponen su detalle.
func messageOf(code domain.Code, err error) string {
	var ve *domain.ValidationError
	var ise *domain.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ise):
		return ise.Error()
	}
	switch code {
	case domain.CodeUnauthenticated:
		return "autenticación requerida o token inválido"
	case domain.CodeForbidden:
		return "no tiene permisos para esta operación"
	case domain.CodeTenantLocked:
		return "la suscripción está bloqueada: solo se permiten lecturas"
	case domain.CodeNotFound:
		return "recurso no encontrado"
	case domain.CodeRateLimited:
		return "demasiadas solicitudes, intente más tarde"
	case domain.CodeGeofenceViolation:
		return "la ubicación está fuera del radio permitido de la tienda"
	case domain.CodeInsufficientStock:
		return "stock insuficiente"
	case domain.CodeConflict:
		if errors.Is(err, domain.ErrDuplicate) {
			return "el recurso ya existe"
		}
		return "conflicto de concurrencia, reintente la operación"
	case domain.CodeValidation:
		return "entrada inválida"
	default:
		return "error interno"
	}
}

func writeSuccess(c *fiber.Ctx, status int, data any) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	if a, ok := data.(*Attachment); ok {
		c.Set(fiber.HeaderContentType, a.ContentType)
		if a.Filename != "" {
			c.Set(fiber.HeaderContentDisposition, `inline; filename="`+a.Filename+`"`)
		}
		return c.Status(status).Send(a.Body)
	}
	return c.Status(status).JSON(dto.Envelope{
		Success:       true,
		Data:          data,
		Status:        status,
		CorrelationID: CorrelationID(c),
	})
}

// writeError escribe el envelope de error de err. RATE_LIMITED agrega Retry-After en segundos.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.CodeOf(err)
	status := StatusOf(code)

	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
	}
	return c.Status(status).JSON(dto.Envelope{
		Success:       false,
		Error:         &dto.ErrorResponse{Code: string(code), Message: messageOf(code, err)},
		Status:        status,
		CorrelationID: CorrelationID(c),
	})
}

// NewErrorHandler normaliza al envelope los errores que salen de fiber (ruta inexistente, body muy grande...).
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
				return writeError(c, domain.ErrNotFound)
			case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge,
				fiber.StatusUnprocessableEntity, fiber.StatusUpgradeRequired:
				return writeError(c, domain.Invalid("", fe.Message))
			case fiber.StatusUnauthorized:
				return writeError(c, domain.ErrUnauthenticated)
			case fiber.StatusForbidden:
				return writeError(c, domain.ErrForbidden)
			case fiber.StatusTooManyRequests:
				return writeError(c, domain.ErrRateLimited)
			}
		}
		log.Error().Err(err).
			Str("correlation_id", CorrelationID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return writeError(c, err)
	}
}
