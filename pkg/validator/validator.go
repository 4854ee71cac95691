package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describe el primer campo que no pasó la validación.
type FieldError struct {
	Field string // nombre JSON del campo
	Tag   string
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Reportar el nombre json en lugar del nombre Go
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		id, err := uuid.Parse(s)
		return err == nil && id != uuid.Nil
	})
	return v
}

// ValidateStruct valida data con las etiquetas `validate` y devuelve los campos inválidos.
// Devuelve nil si todo es válido.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*FieldError{{Field: "body", Tag: "invalid"}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{
			Field: fieldPath(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Reason traduce la etiqueta de validación a un texto corto legible.
func (e *FieldError) Reason() string {
	switch e.Tag {
	case "required", "required_with":
		return "es obligatorio"
	case "uuid_required", "uuid", "uuid4":
		return "debe ser un UUID válido"
	case "email":
		return "debe ser un email válido"
	case "min", "gte":
		return "debe ser al menos " + e.Param
	case "max", "lte":
		return "debe ser como máximo " + e.Param
	case "gt":
		return "debe ser mayor que " + e.Param
	case "oneof":
		return "debe ser uno de: " + e.Param
	case "latitude":
		return "latitud fuera de rango"
	case "longitude":
		return "longitud fuera de rango"
	case "dive":
		return "contiene elementos inválidos"
	default:
		return "inválido (" + e.Tag + ")"
	}
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.items[0].qty" -> "items[0].qty".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
