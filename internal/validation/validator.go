// Folio - Reading Personalization and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// visitorIDPattern matches the opaque visitor identifiers accepted from
// clients: uuids, hex digests and similar URL-safe tokens. ':' is excluded
// because it separates visitor and session ids in storage keys.
var visitorIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// FieldError is one failed constraint, reported under the field's JSON name.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed constraint of one value.
type RequestValidationError struct {
	Fields []FieldError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.Fields
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		parts[i] = f.Message
	}
	return strings.Join(parts, "; ")
}

// APIError mirrors models.APIError to keep this package free of model imports.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError shapes the failures as a VALIDATION_ERROR response. A single
// failure names its field directly; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	apiErr := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}

	switch len(ve.Fields) {
	case 0:
	case 1:
		f := ve.Fields[0]
		apiErr.Message = f.Message
		apiErr.Details = map[string]interface{}{"field": f.Field, "tag": f.Tag}
	default:
		fields := make([]map[string]interface{}, len(ve.Fields))
		messages := make([]string, len(ve.Fields))
		for i, f := range ve.Fields {
			fields[i] = map[string]interface{}{"field": f.Field, "tag": f.Tag, "message": f.Message}
			messages[i] = f.Field + ": " + f.Message
		}
		apiErr.Message = strings.Join(messages, "; ")
		apiErr.Details = map[string]interface{}{"fields": fields}
	}
	return apiErr
}

// GetValidator returns the singleton validator instance.
// Field names in errors follow the json tag so clients see the wire names.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails on an empty tag or nil func.
		_ = validate.RegisterValidation("visitorid", func(fl validator.FieldLevel) bool {
			return visitorIDPattern.MatchString(fl.Field().String())
		})
	})

	return validate
}

// ValidateStruct runs the struct's validate tags. It returns nil when every
// constraint holds.
func ValidateStruct(s interface{}) *RequestValidationError {
	return convert(GetValidator().Struct(s), "")
}

// ValidateVar checks a single value against tag, reporting failures as field.
func ValidateVar(field string, value interface{}, tag string) *RequestValidationError {
	return convert(GetValidator().Var(value, tag), field)
}

// IsVisitorID reports whether id is an acceptable visitor identifier.
func IsVisitorID(id string) bool {
	return visitorIDPattern.MatchString(id)
}

// convert maps validator errors onto RequestValidationError. name replaces
// the field name, which validator leaves empty for Var checks.
func convert(err error, name string) *RequestValidationError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := name
		if field == "" {
			field = fe.Field()
		}
		out[i] = FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: describe(fe, field),
		}
	}
	return &RequestValidationError{Fields: out}
}

// comparisons render tags whose parameter is a bound.
var comparisons = map[string]string{
	"oneof": "must be one of:",
	"gte":   "must be greater than or equal to",
	"lte":   "must be less than or equal to",
	"gt":    "must be greater than",
	"lt":    "must be less than",
}

// describe renders a client-facing message for one failure.
func describe(fe validator.FieldError, field string) string {
	tag, param := fe.Tag(), fe.Param()

	switch tag {
	case "required":
		return field + " is required"
	case "visitorid":
		return field + " must be 1-128 URL-safe characters"
	case "url":
		return field + " must be a valid URL"
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", field, bound, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain %s %s items", field, bound, param)
		}
		return fmt.Sprintf("%s must be %s %s", field, bound, param)
	}
	if phrase, ok := comparisons[tag]; ok {
		return fmt.Sprintf("%s %s %s", field, phrase, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
