package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the `validate` struct tags of v and converts the
// first failure into an INVALID_INPUT error naming the field.
func ValidateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(ErrCodeInvalidInput, err, "invalid request")
	}
	return New(ErrCodeInvalidInput, "%s", describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}

// ValidateQuery checks a title or DOI query: at least 3 characters after
// trimming, at most 500, and no control characters.
func ValidateQuery(q string) error {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 3 {
		return New(ErrCodeInvalidInput, "query must be at least 3 characters")
	}
	if len(q) > 500 {
		return New(ErrCodeInvalidInput, "query too long (max 500 characters)")
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains invalid control characters")
		}
	}
	return nil
}

// ValidateVertexID rejects empty ids and ids carrying null bytes.
func ValidateVertexID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "vertex id cannot be empty")
	}
	if strings.ContainsRune(id, 0) {
		return New(ErrCodeInvalidInput, "vertex id contains invalid characters")
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(raw, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL %q must use http or https", raw)
}
