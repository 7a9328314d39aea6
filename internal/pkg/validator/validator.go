package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("validation failed")

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Error lists failed fields with the rule each one broke.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, tag := range e.Fields {
		parts = append(parts, f+"="+tag)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, ", "))
}

func (e *Error) Is(target error) bool { return target == ErrInvalid }

// Validate struct fields
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	fields := make(map[string]string)
	for _, err := range verrs {
		fields[err.Field()] = err.Tag()
	}
	return fields
}

// Struct is Validate as an error.
func Struct(v any) error {
	if fields := Validate(v); fields != nil {
		return &Error{Fields: fields}
	}
	return nil
}
