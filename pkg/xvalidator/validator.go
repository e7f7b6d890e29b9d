package xvalidator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/questx-lab/classroom/pkg/errorx"
)

const notBlankTag = "notblank"

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// Struct validates the fields of v by their validate tags. Failures are
// returned as errorx.BadRequest.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return errorx.New(errorx.BadRequest, "Invalid %s (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}

	return err
}
