package middleware

import (
	"testing"

	"github.com/fintegrity/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	// Verify the validator is configured
	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type input struct {
		CompanyID string  `json:"company_id" validate:"required"`
		Threshold float64 `json:"threshold" validate:"gt=0,lte=1"`
	}

	v := validator.New()
	err := v.Struct(input{Threshold: 1.5})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request validation failed", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-456")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Required  string  `validate:"required"`
		UUID      string  `validate:"omitempty,uuid"`
		OneOf     string  `validate:"omitempty,oneof=a b c"`
		GTE       int     `validate:"omitempty,gte=10"`
		LTE       int     `validate:"lte=100"`
		GT        float64 `validate:"omitempty,gt=0"`
		LT        int     `validate:"lt=1000"`
		Unhandled string  `validate:"omitempty,email"`
	}

	v := validator.New()
	err := v.Struct(input{
		UUID:      "not-a-uuid",
		OneOf:     "d",
		GTE:       5,
		LTE:       200,
		GT:        -1,
		LT:        2000,
		Unhandled: "not-an-email",
	})
	require.Error(t, err)

	expected := map[string]string{
		"Required":  "This field is required",
		"UUID":      "Invalid UUID format",
		"OneOf":     "Must be one of: a b c",
		"GTE":       "Must be greater than or equal to 10",
		"LTE":       "Must be less than or equal to 100",
		"GT":        "Must be greater than 0",
		"LT":        "Must be less than 1000",
		"Unhandled": "Invalid value",
	}

	validationErrs := err.(validator.ValidationErrors)
	assert.Len(t, validationErrs, len(expected))
	for _, e := range validationErrs {
		t.Run(e.Field(), func(t *testing.T) {
			assert.Equal(t, expected[e.Field()], ValidationMessage(e))
		})
	}
}
