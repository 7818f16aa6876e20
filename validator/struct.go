// Package validator checks values against their validate struct tags.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ncobase/pagination/ecode"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "The field '%s' is required.",
	"min":      "The field '%s' must be at least %s.",
	"max":      "The field '%s' must be at most %s.",
	"lte":      "The field '%s' must be less than or equal to %s.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"gt":       "The field '%s' must be greater than %s.",
	"lt":       "The field '%s' must be less than %s.",
	"oneof":    "The field '%s' must be one of %s.",
	"url":      "The field '%s' must be a valid URL.",
}

// Errors maps the dotted JSON path of each invalid field to a message
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = e[k]
	}
	return strings.Join(parts, " ")
}

// Unwrap lets errors.Is match ecode.ErrInvalidArgument
func (e Errors) Unwrap() error {
	return ecode.ErrInvalidArgument
}

// Struct validates s, returning Errors when any field fails its tag
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ecode.ErrInvalidArgument, err)
	}

	out := make(Errors, len(fieldErrs))
	for _, e := range fieldErrs {
		path := fieldPath(e.Namespace())
		out[path] = message(path, e)
	}
	return out
}

// fieldPath drops the root type name from a namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func message(path string, e validator.FieldError) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", path, e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, path, e.Param())
	}
	return fmt.Sprintf(msg, path)
}
