package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first failed form rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var digits = regexp.MustCompile(`^[0-9]+$`)

// messages maps field.tag to the text shown for that failure. field is the
// json name of the struct field.
var messages = map[string]string{
	"email.required":              "Please enter a valid email address",
	"email.email":                 "Please enter a valid email address",
	"password.required":           "Password is required",
	"password.min":                "Password must be at least 6 characters",
	"fullName.required":           "Full name is required",
	"mobileNo.len":                "Mobile number must be 10 digits",
	"mobileNo.digits":             "Mobile number must be 10 digits",
	"name.required":               "Product name is required",
	"name.min":                    "Product name is required",
	"price.required":              "Product price is required",
	"price.min":                   "Product price is required",
	"image.required":              "Product image is required",
	"currentPassword.required":    "Current password is required",
	"newPassword.required":        "New password is required",
	"confirmNewPassword.required": "Please confirm your new password",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = f.Tag.Get("form")
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digits.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks s against its validate tags.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
