package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "Acme"}))
	assert.NoError(t, Struct(sample{Name: "Acme", Email: "info@acme.com"}))

	err := Struct(sample{Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalid)
	var verr *Error
	if assert.ErrorAs(t, err, &verr) {
		assert.Equal(t, map[string]string{"Name": "required", "Email": "email"}, verr.Fields)
	}
}
