package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"restoran_server/structs"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := NormalizeDate(fl.Field().String())
		return err == nil
	})

	return v
}

// FieldError represents a clean validation error for APIs
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a structured validation error
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// Error names the first failing field, e.g. "party_size must be at most 20".
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0].Field + " " + e.Errors[0].Message
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// ExtractAndValidateBody extracts and validates the request body into the provided struct type T
func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	defer r.Body.Close()

	var body T

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		return nil, mapDecodeError(err)
	}

	if err := ValidateStruct(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

// ValidateStruct runs the validate tags of v and returns a *ValidationError on failure.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return mapValidationErrors(ve)
		}
		return err
	}
	return nil
}

func mapDecodeError(err error) error {
	var fieldErr *structs.InvalidFieldError
	if errors.As(err, &fieldErr) {
		return NewValidationError(fieldErr.Field, fieldErr.Message)
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return NewValidationError("body", "must be a JSON object")
	case errors.As(err, &typeErr):
		return NewValidationError(typeErr.Field, "must be of type "+typeErr.Type.String())
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return NewValidationError(field, "is not allowed")
	default:
		return NewValidationError("body", fmt.Sprintf("is not valid JSON: %v", err))
	}
}

func mapValidationErrors(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{}

	for _, e := range errs {
		// Namespace keeps the path of nested fields ("items[0].quantity")
		field := e.Field()
		if ns := e.Namespace(); strings.Contains(ns, ".") {
			field = ns[strings.Index(ns, ".")+1:]
		}
		numeric := isNumericKind(e.Kind())

		var message string
		switch e.Tag() {
		case "required":
			message = "is required"
		case "required_if":
			message = "is required for this order type"
		case "email":
			message = "must be a valid email address"
		case "url":
			message = "must be a valid URL"
		case "uuid4":
			message = "must be a valid UUID"
		case "hhmm":
			message = "must be a time in HH:MM (24-hour) format"
		case "calendardate":
			message = "must be a valid date (YYYY-MM-DD)"
		case "min":
			if numeric {
				message = "must be at least " + e.Param()
			} else if e.Kind() == reflect.Slice {
				message = "must contain at least " + e.Param() + " item(s)"
			} else {
				message = "must be at least " + e.Param() + " characters"
			}
		case "max":
			if numeric {
				message = "must be at most " + e.Param()
			} else if e.Kind() == reflect.Slice {
				message = "must contain at most " + e.Param() + " items"
			} else {
				message = "must be at most " + e.Param() + " characters"
			}
		case "len":
			message = "must be exactly " + e.Param() + " characters"
		case "gt":
			message = "must be greater than " + e.Param()
		case "gte":
			message = "must be greater than or equal to " + e.Param()
		case "lte":
			message = "must be less than or equal to " + e.Param()
		case "oneof":
			message = "must be one of: " + e.Param()
		case "dive":
			// dive is a nested validation tag, skip it as the actual error will be reported by the nested field
			continue
		default:
			message = "is invalid"
		}

		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: message,
		})
	}

	return out
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
