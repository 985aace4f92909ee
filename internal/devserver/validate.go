package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator renders go-playground failures the way Laravel does.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &apiError{Status: http.StatusUnprocessableEntity, Errors: make(map[string][]string, len(ve))}
	for _, fe := range ve {
		msg := laravelMessage(fe)
		if out.Message == "" {
			out.Message = msg
		}
		out.Errors[fe.Field()] = append(out.Errors[fe.Field()], msg)
	}
	if extra := len(ve) - 1; extra > 0 {
		out.Message += fmt.Sprintf(" (and %d more %s)", extra, plural(extra, "error", "errors"))
	}
	return out
}

func laravelMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	case "len", "numeric":
		return fmt.Sprintf("The %s field must be 10 digits.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// bind decodes and validates the request body into dst.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return newError(http.StatusBadRequest, "Malformed request body.")
	}
	return c.Validate(dst)
}
