package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/RetailOps-api/internal/application/dto"
	"github.com/jhoicas/RetailOps-api/internal/domain"
	"github.com/jhoicas/RetailOps-api/pkg/validator"
)

// bind decodifica el cuerpo JSON en dst y lo valida. El primer campo inválido define el error.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Invalid("body", "cuerpo JSON inválido")
	}
	return check(dst)
}

// pageOf lee limit/offset de la query.
func pageOf(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, domain.Invalid("limit", "paginación inválida")
	}
	if err := check(&p); err != nil {
		return p, err
	}
	p.DefaultPage()
	return p, nil
}

func check(v any) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		return domain.Invalid(errs[0].Field, errs[0].Reason())
	}
	return nil
}
