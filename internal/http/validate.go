package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Cashmusic-25/pretium-sound-ecommerce-sub000/internal/application"
)

// requestValidator checks the syntactic shape of request bodies before the
// services apply their own semantic validation. Field names in error maps
// follow the json tags of the request structs.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest parses the JSON body into dst and runs tag validation.
// Malformed JSON surfaces as errBadRequestBody; tag failures surface as an
// application.ValidationError so the responder renders them as 422.
func decodeRequest(r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return errBadRequestBody
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequestBody
	}

	if err := requestValidator.StructCtx(r.Context(), dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			vErr := &application.ValidationError{FieldErrors: make(map[string]string, len(fieldErrs))}
			for _, fieldErr := range fieldErrs {
				field := fieldErr.Field()
				if field == "" {
					field = fieldErr.StructField()
				}
				if _, exists := vErr.FieldErrors[field]; !exists {
					vErr.FieldErrors[field] = validationMessage(fieldErr)
				}
			}
			return vErr
		}
		return errBadRequestBody
	}
	return nil
}

func validationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		switch err.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must contain at least %s entries", err.Param())
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		switch err.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("must contain at most %s entries", err.Param())
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", err.Param())
		}
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "datetime":
		return "must match the expected date format"
	default:
		return "is invalid"
	}
}
