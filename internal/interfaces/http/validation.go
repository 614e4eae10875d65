package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores se reportan con el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bindJSON parsea el cuerpo en out y lo valida. Devuelve nil si es válido o el
// ErrorResponse (400) que debe enviarse.
func bindJSON(c *fiber.Ctx, out any) *dto.ErrorResponse {
	if err := c.BodyParser(out); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	return validateStruct(out)
}

// bindQuery parsea los query params en out y los valida.
func bindQuery(c *fiber.Ctx, out any) *dto.ErrorResponse {
	if err := c.QueryParser(out); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"}
	}
	return validateStruct(out)
}

// pageQuery lee limit/offset de la query con los valores por defecto aplicados.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, *dto.ErrorResponse) {
	var p dto.PageRequest
	if e := bindQuery(c, &p); e != nil {
		return p, e
	}
	p.DefaultPage()
	return p, nil
}

func validateStruct(out any) *dto.ErrorResponse {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = ruleMessage(fe)
	}
	return &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields}
}

// fieldPath ruta del campo sin el nombre del struct raíz: "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "uuid":
		return "debe ser un UUID"
	case "min", "gte":
		return "debe ser al menos " + fe.Param()
	case "max", "lte":
		return "debe ser como máximo " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "datetime":
		return "formato de fecha esperado " + fe.Param()
	default:
		return "no cumple la regla " + fe.Tag()
	}
}

// pathID lee el parámetro :id de la ruta y exige formato UUID.
func pathID(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	id := c.Params("id")
	if err := validate.Var(id, "required,uuid"); err != nil {
		return "", &dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "identificador inválido",
			Fields:  map[string]string{"id": "debe ser un UUID"},
		}
	}
	return id, nil
}
