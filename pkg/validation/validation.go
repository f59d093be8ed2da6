// Package validation wraps go-playground/validator and reports failures as
// domain validation errors named after the JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "consentsync/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// jsonFieldName names fields by their json tag so messages match the wire
// format. Untagged fields keep the Go name.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// Validate runs struct validation and returns the first failure as a
// CodeValidation error.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

var tagMessages = map[string]string{
	"required": "%s is required",
	"notblank": "%s must not be blank",
	"url":      "%s must be a valid url",
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of [%s]",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
}

// ErrorMessage describes the first failed field of a validator error.
func ErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if field == "" {
		return "invalid request body"
	}

	tag := fe.ActualTag()
	if format, ok := tagMessages[tag]; ok {
		return fmt.Sprintf(format, field)
	}
	if format, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(format, field, fe.Param())
	}
	return field + " is invalid"
}
