package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"resortbooking/internal/domain"
)

var validate *validator.Validate

// phMobile matches Philippine mobile numbers: 09XXXXXXXXX or +639XXXXXXXXX.
var phMobile = regexp.MustCompile(`^(09\d{9}|\+639\d{9})$`)

func init() {
	validate = validator.New()
	validate.SetTagName("binding")
	register(validate)

	// gin binds request bodies with its own engine; teach it the same tags.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("ph_mobile", func(fl validator.FieldLevel) bool {
		return phMobile.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, fe := range verrs {
		errs[fe.Namespace()] = fe.Tag()
	}
	return errs
}

// Check validates v and reports the first failing field as a domain validation error.
func Check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Validationf("%v", err)
	}
	return domain.Validationf("%s", Message(verrs[0]))
}

// Message renders a field error the way it is shown to the operator.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "ph_mobile":
		return fmt.Sprintf("%s must be a mobile number like 09XXXXXXXXX or +639XXXXXXXXX", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
