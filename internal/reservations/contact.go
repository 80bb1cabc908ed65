package reservations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactError reports a malformed contact field.
type ContactError struct {
	Field string
	Value string
}

func (e *ContactError) Error() string {
	return fmt.Sprintf("reservations: invalid %s %q", e.Field, e.Value)
}

type contact struct {
	Name  string `validate:"required,max=100"`
	Phone string `validate:"required,phone"`
	Email string `validate:"required,email"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("phone", validPhone); err != nil {
		panic(err)
	}
	return v
}

// validPhone accepts 7 to 15 digits with an optional leading "+" and the
// separators " -().".
func validPhone(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	s = strings.TrimPrefix(s, "+")
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(" -().", r):
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// ValidateContact checks the caller's name, phone and email. The first
// failing field is returned as a *ContactError.
func ValidateContact(name, phone, email string) error {
	c := contact{
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	return &ContactError{Field: strings.ToLower(first.Field()), Value: fmt.Sprint(first.Value())}
}
