package binder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const (
	date     = "date"
	gt       = "gt"
	gte      = "gte"
	httpURL  = "http_url"
	mx       = "max"
	mn       = "min"
	ne       = "ne"
	oneof    = "oneof"
	required = "required"
	uuid     = "uuid"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

// plural returns "<n> <unit>" with the unit pluralized unless n is "1".
func plural(n, unit string) string {
	if n == "1" {
		return n + " " + unit
	}
	return n + " " + unit + "s"
}

func isNumeric(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// boundMessage builds the min/max messages, which depend on whether the field
// is a number, a slice, or a string.
func boundMessage(err validator.FieldError, comparison string) string {
	field := err.Field()
	switch {
	case isNumeric(err.Kind()):
		return fmt.Sprintf("%q must be %s %s", field, comparison, err.Param())
	case err.Kind() == reflect.Slice:
		return fmt.Sprintf("%q length must be %s %s", field, comparison, plural(err.Param(), "element"))
	default:
		return fmt.Sprintf("%q length must be %s %s", field, comparison, plural(err.Param(), "character"))
	}
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case date:
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case gt:
		return fmt.Sprintf("%q must be greater than %s", field, err.Param())
	case gte:
		return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
	case httpURL:
		return fmt.Sprintf("%q must be an http or https URL", field)
	case mx:
		return boundMessage(err, "less than or equal to")
	case mn:
		return boundMessage(err, "greater than or equal to")
	case ne:
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case required:
		return fmt.Sprintf("%q is required", field)
	case uuid:
		return fmt.Sprintf("%q must be a valid ID", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
