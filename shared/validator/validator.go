package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/JustAdi10/Booking/shared/failure"
	"github.com/JustAdi10/Booking/shared/timezone"

	val "github.com/go-playground/validator/v10"
)

const timeOfDayLayout = "15:04"

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]val.Func{
		"empty":        func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
		"datetime_any": parsesWith(timezone.ParseDateTime),
		"time_of_day": parsesWith(func(value string) (any, error) {
			return timezone.Parse(timeOfDayLayout, value)
		}),
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// parsesWith adapts a string parser into a validation: the field is valid when parse succeeds.
func parsesWith[T any](parse func(string) (T, error)) val.Func {
	return func(fl val.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		_, err := parse(value)

		return err == nil
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

// Validate decodes a JSON body into data and validates it. Both failures are validation errors.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
