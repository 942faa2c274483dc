package contentapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validationError turns validator output into a ValidationError with a
// message a human can act on, reporting the first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return validationf("%s is required", field)
		case "oneof":
			return validationf("%s must be one of: %s", field, fe.Param())
		}
		return validationf("%s is invalid", field)
	}
	return &ValidationError{Msg: err.Error()}
}
