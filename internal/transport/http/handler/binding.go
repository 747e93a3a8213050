package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report the JSON field name, so
// error locations match what the client sent.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes and validates the request body into dst. Any failure is
// returned as a *domain.ValidationError naming the first offending field.
func bindJSON(c *gin.Context, dst any) error {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		return translateBindError(err, dst)
	}
	return nil
}

// bindOptionalJSON is bindJSON for endpoints where an absent body means
// "nothing to change". dst is left untouched when the body is empty.
func bindOptionalJSON(c *gin.Context, dst any) error {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return translateBindError(err, dst)
	}
	return nil
}

// checkEmail validates an already-normalized address with the same rule the
// binding tags use.
func checkEmail(location, value string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.Var(value, "email"); err != nil {
		return domain.NewValidationError(location, "Must be a valid email")
	}
	return nil
}

func translateBindError(err error, dst any) *domain.ValidationError {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		domErr  *domain.ValidationError
	)

	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), validationMessage(fe))
	case errors.As(err, &typeErr):
		if missing := firstMissingField(dst, typeErr.Field); missing != nil {
			return missing
		}
		return domain.NewValidationError(typeErr.Field, "Incorrect field type: expected "+jsonKind(typeErr.Type))
	case errors.As(err, &domErr):
		return domErr
	default:
		return domain.NewValidationError("body", "Malformed JSON body")
	}
}

// firstMissingField reports an absent required field, if any. The decoder
// keeps going past a type mismatch, so dst holds everything else the client
// sent; the mismatched field itself is zero and is skipped.
func firstMissingField(dst any, mismatched string) *domain.ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(binding.Validator.ValidateStruct(dst), &verrs) {
		return nil
	}
	for _, fe := range verrs {
		if fe.Field() == mismatched {
			continue
		}
		if tag := fe.Tag(); tag == "required" || tag == "required_without" {
			return domain.NewValidationError(fe.Field(), validationMessage(fe))
		}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "Missing field"
	case "email":
		return "Must be a valid email"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long", fe.Param())
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	default:
		return "Invalid value"
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// tradeDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type tradeDate struct {
	time.Time
}

func (d *tradeDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return domain.NewValidationError("date", "Incorrect field type: expected string")
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return domain.NewValidationError("date", "Must be a valid date")
}
