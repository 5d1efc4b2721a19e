// Package validation decodes raw request bodies into tagged payload
// records and applies their declared constraints, reporting the first
// violation with a field-qualified message.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator builds the shared validator instance. Field names in error
// messages come from the json tag so they match what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAndValidate decodes a raw JSON body into dst and runs its
// constraint tags. Empty bodies, malformed JSON, and bodies with no
// attributes are all validation errors.
func DecodeAndValidate(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.New("request body is empty")
	}

	// Decode to a key map first so an empty object is caught before the
	// required-field checks phrase it differently.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	if len(keys) == 0 {
		return errors.New("request has no attributes")
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return Struct(dst)
}

// Struct runs the constraint tags of an already-populated record.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(verrs[0])
	}
	return err
}

// fieldError formats a single violation as "field: message". Only the
// first violation is reported, mirroring schema-validator behavior.
func fieldError(fe validator.FieldError) error {
	return fmt.Errorf("%s: %s", fieldPath(fe), constraintMessage(fe))
}

// fieldPath strips the root struct name from the namespace, leaving the
// json path of the offending field (e.g. "manufacturer.name").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "number":
		return "must contain only digits"
	default:
		return fmt.Sprintf("failed the %q constraint", fe.Tag())
	}
}
