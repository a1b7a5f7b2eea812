package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"gt":       "{field} must be greater than {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid UUID",

	"datetime_any": "{field} must be an RFC3339 timestamp or a YYYY-MM-DD date",
	"time_of_day":  "{field} must be a time in HH:MM format",
}

// length bounds on strings and slices read as counts, not values
var lengthMessages = map[string]string{
	"max": "{field} must be at most {param} characters",
	"min": "{field} must be at least {param} characters",
}

// message renders the first failed rule with a known template.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldError := range fieldErrors {
		template := templateFor(fieldError)
		if template == "" {
			continue
		}

		return strings.NewReplacer("{field}", fieldError.Field(), "{param}", fieldError.Param()).Replace(template)
	}

	return fieldErrors.Error()
}

func templateFor(fieldError val.FieldError) string {
	if fieldError.Kind() == reflect.String {
		if template, ok := lengthMessages[fieldError.Tag()]; ok {
			return template
		}
	}

	return messages[fieldError.Tag()]
}
