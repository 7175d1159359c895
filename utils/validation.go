package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sevacare/backend/services"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names instead of Go struct field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// inphone: a string that normalizes to exactly 10 digits.
	_ = validate.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return len(NormalizePhone(fl.Field().String())) == 10
	})
}

// FieldError is a single schema violation at a dot-joined field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the ordered list of violations found in one pass.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "validation failed"
}

// ValidateStruct validates a struct and returns a KindValidation domain
// error carrying every violation, or nil.
func ValidateStruct(s interface{}) error {
	fields, ok := collectViolations(s)
	if ok {
		return nil
	}
	return services.ErrValidationFailed.WithDetail("fields", fields)
}

// SafeValidate is the non-failing variant: it reports validity and the
// violation list as plain values for call sites that want to branch.
func SafeValidate(s interface{}) (bool, []FieldError) {
	fields, ok := collectViolations(s)
	return ok, fields
}

func collectViolations(s interface{}) ([]FieldError, bool) {
	err := validate.Struct(s)
	if err == nil {
		return nil, true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not a field-level failure (e.g. a non-struct was passed).
		return []FieldError{{Field: "", Message: err.Error()}}, false
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
		})
	}
	return fields, false
}

// fieldPath strips the root struct name from the namespace, leaving the
// dot-joined path of json field names.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "inphone":
		return fmt.Sprintf("%s must be a valid 10-digit phone number", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
