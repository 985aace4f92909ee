// Package validation checks client forms before anything is sent to the
// backend. It wraps go-playground/validator with the purificadora rules and
// renders failures as user-facing Spanish messages keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/purificadora/app-client/internal/core/domain"
	"github.com/purificadora/app-client/internal/core/ports"
)

// GeneralMessage is shown alongside the per-field messages.
const GeneralMessage = "Corrige los errores antes de continuar"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// FieldError is a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors lists rejected fields in declaration order. It matches
// domain.ErrValidation under errors.Is.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Is(target error) bool {
	return target == domain.ErrValidation
}

// Fields returns the messages keyed by field name.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Validator is safe for concurrent use once built.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return domain.CheckPassword(fl.Field().String()).Satisfied()
	})
	_ = v.RegisterValidation("mxphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(profilePasswordRules, ports.ProfileInput{})

	return &Validator{v: v}
}

// Validate checks a struct carrying validate tags. It satisfies echo.Validator.
func (v *Validator) Validate(i any) error {
	return translate(v.v.Struct(i))
}

// Quantity checks an order quantity against the product's stock.
func (v *Validator) Quantity(p domain.Product, quantity int) error {
	limit := p.MaxOrderQuantity()
	if limit <= 0 {
		return fmt.Errorf("%s: %w", p.Name, domain.ErrOutOfStock)
	}
	if err := v.v.Var(quantity, fmt.Sprintf("min=1,max=%d", limit)); err != nil {
		return Errors{{Field: "cantidad", Message: fmt.Sprintf("Selecciona una cantidad entre 1 y %d", limit)}}
	}
	return nil
}

// profilePasswordRules applies the password-change rules only when the user
// filled in at least one of the three password fields.
func profilePasswordRules(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(ports.ProfileInput)
	if !ok || !in.ChangingPassword() {
		return
	}

	if in.CurrentPassword == "" {
		sl.ReportError(in.CurrentPassword, "current_password", "CurrentPassword", "required", "")
	}
	if in.NewPassword == "" {
		sl.ReportError(in.NewPassword, "new_password", "NewPassword", "required", "")
	} else if !domain.CheckPassword(in.NewPassword).Satisfied() {
		sl.ReportError(in.NewPassword, "new_password", "NewPassword", "password", "")
	}
	if in.PasswordConfirmation != in.NewPassword {
		sl.ReportError(in.PasswordConfirmation, "new_password_confirmation", "PasswordConfirmation", "eqfield", "new_password")
	}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

var requiredMessages = map[string]string{
	"name":             "Nombre requerido",
	"email":            "Correo requerido",
	"password":         "Contraseña requerida",
	"current_password": "Ingrese su contraseña actual",
	"new_password":     "Ingrese una nueva contraseña",
	"producto_id":      "Producto requerido",
	"cantidad":         "Cantidad requerida",
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fe.Field() + " es obligatorio"
	case "email":
		return "Correo no válido"
	case "password":
		return "La contraseña no cumple con todos los requisitos"
	case "mxphone":
		return "Debe contener 10 dígitos numéricos"
	case "eqfield":
		return "Las contraseñas no coinciden"
	case "gt", "min":
		return fmt.Sprintf("%s debe ser mayor que %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s no es válido (%s)", fe.Field(), fe.Tag())
	}
}
