package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in messages come from the json tags, as clients know them.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return errors.New(strings.Join(msgs, " "))
		}
		return err
	}
	return nil
}

// fieldError renders one failure the way the admin API words it.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Le champ %s est obligatoire.", field)
	case "email":
		return fmt.Sprintf("Le champ %s doit être une adresse email valide.", field)
	case "min":
		return fmt.Sprintf("Le champ %s doit contenir au moins %s caractères.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("La confirmation du champ %s ne correspond pas.", field)
	case "numeric":
		return fmt.Sprintf("Le champ %s doit être numérique.", field)
	case "oneof":
		return fmt.Sprintf("Le champ %s doit être l'une des valeurs: %s.", field, fe.Param())
	default:
		return fmt.Sprintf("Le champ %s est invalide (%s).", field, fe.Tag())
	}
}
