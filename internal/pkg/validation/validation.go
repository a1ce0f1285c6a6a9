package validation

import (
	"fmt"

	"unistay-backend/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a request body struct against its validate tags and
// translates the first failure into a ValidationError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		f := verrs[0]
		if f.Tag() == "required" {
			return apperrors.Validation("Missing required field: %s", f.Field())
		}
		return apperrors.Validation(fmt.Sprintf("Invalid value for field %s", f.Field()))
	}
	return apperrors.Validation("Invalid request body")
}
