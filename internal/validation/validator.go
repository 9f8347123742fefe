// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the API error code for request validation failures.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule on one field.
type FieldError struct {
	// Field is the json name of the field, or the Go name when untagged.
	Field string
	// Tag is the failed rule, e.g. "min".
	Tag string
	// Param is the rule argument, e.g. "1" for "min=1".
	Param string
	// Value is the rejected value.
	Value interface{}
	// Message is the human-readable form.
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects every failed rule for one request.
type RequestValidationError struct {
	Fields []FieldError
}

// Error joins the field messages with "; ".
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.messages(), "; ")
}

func (ve *RequestValidationError) messages() []string {
	out := make([]string, len(ve.Fields))
	for i := range ve.Fields {
		out[i] = ve.Fields[i].Message
	}
	return out
}

// APIError mirrors the API error body without importing internal/api.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts to the API error body. A single failure reports its
// field, tag and value; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.Fields) {
	case 0:
		return &APIError{Code: ErrorCode, Message: "Validation failed"}
	case 1:
		fe := ve.Fields[0]
		return &APIError{
			Code:    ErrorCode,
			Message: fe.Message,
			Details: map[string]interface{}{
				"field": fe.Field,
				"tag":   fe.Tag,
				"value": fe.Value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.Fields))
	for i, fe := range ve.Fields {
		fields[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
	}
	return &APIError{
		Code:    ErrorCode,
		Message: strings.Join(ve.messages(), "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// GetValidator returns the shared validator. Field names in errors are
// taken from json tags.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("csvpath", validCSVPath)
	})
	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

// validCSVPath accepts a non-blank local path without NUL bytes.
func validCSVPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	return strings.TrimSpace(p) != "" && !strings.ContainsRune(p, 0)
}

// ValidateStruct validates s with the shared validator. It returns nil when
// every rule passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{
			Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}},
		}
	}

	out := &RequestValidationError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		out.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		}
	}
	return out
}

// describe renders a validator.FieldError as a sentence naming the field.
func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "csvpath":
		return field + " must be a non-empty file path"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, sizeUnit(fe.Kind()))
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, sizeUnit(fe.Kind()))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// sizeUnit names what min/max count for kinds where it is not a number.
func sizeUnit(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
