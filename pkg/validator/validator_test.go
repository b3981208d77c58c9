package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Title  string `validate:"required,max=5"`
	Method string `validate:"oneof=LIKE VOTE"`
	Limit  int    `validate:"min=0"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(sampleRequest{Method: "LIKE"})
	assert.Equal(t, "title is required", FormatValidationError(err))

	err = v.Struct(sampleRequest{Title: "too long", Method: "STAR", Limit: -1})
	assert.Equal(t,
		"title must be at most 5 characters; method must be one of [LIKE VOTE]; limit must be at least 0",
		FormatValidationError(err))
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, "EOF", FormatValidationError(errors.New("EOF")))
}
