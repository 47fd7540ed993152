package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate

	// maxMoney is the largest value a decimal(8,2) column accepts.
	maxMoney = decimal.RequireFromString("999999.99")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// ValidationErrors collects multiple validation failures.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(v))
	for i, err := range v {
		if err.Param != "" {
			parts[i] = err.Field + " failed on " + err.Tag + "=" + err.Param
		} else {
			parts[i] = err.Field + " failed on " + err.Tag
		}
	}
	return strings.Join(parts, "; ")
}

// Messages groups the failures by field with a readable sentence for each.
func (v ValidationErrors) Messages() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, failure := range v {
		out[failure.Field] = append(out[failure.Field], failure.message())
	}
	return out
}

func (e ValidationError) message() string {
	field := strings.ReplaceAll(e.Field, "_", " ")
	switch e.Tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, e.Param)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, e.Param)
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.TrimSuffix(field, " confirmation"))
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "money":
		return fmt.Sprintf("The %s must be a non-negative amount below 1000000 with at most two decimals.", field)
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, e.Param)
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", field, e.Param)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "exists":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "mimes":
		return fmt.Sprintf("The %s must be a file of type: %s.", field, e.Param)
	case "file_max":
		return fmt.Sprintf("The %s may not be greater than %s kilobytes.", field, e.Param)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", field)
	default:
		if e.Param != "" {
			return fmt.Sprintf("The %s failed on %s=%s.", field, e.Tag, e.Param)
		}
		return fmt.Sprintf("The %s failed on %s.", field, e.Tag)
	}
}

// ValidateStruct validates a struct using registered rules.
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		failures := make(ValidationErrors, 0, len(ve))
		for _, fe := range ve {
			failures = append(failures, ValidationError{
				Field: fe.Field(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
		return failures
	}

	return err
}

// RegisterValidation exposes underlying validator custom rules.
func RegisterValidation(tag string, fn validator.Func) error {
	return getValidator().RegisterValidation(tag, fn)
}

func validateMoney(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	if value.IsNegative() || value.GreaterThan(maxMoney) {
		return false
	}
	return value.Equal(value.Truncate(2))
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if name == "" {
				name = fld.Tag.Get("form")
			}
			if name == "" {
				return fld.Name
			}

			comma := strings.Index(name, ",")
			if comma != -1 {
				name = name[:comma]
			}

			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("money", validateMoney)
	})
	return validate
}
