package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	Qty *int `json:"quantity" validate:"omitempty,min=0"`
}

type sampleInput struct {
	Name   string       `json:"name" validate:"required"`
	Method string       `json:"method" validate:"omitempty,oneof=cash card"`
	Lines  []sampleLine `json:"items" validate:"required,min=1,dive"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	v := NewValidator()
	qty := -1
	err := ValidateStruct(v, sampleInput{Method: "cheque", Lines: []sampleLine{{Qty: &qty}}})
	require.Error(t, err)
	require.Equal(t, CodeValidation, ErrorCode(err))

	appErr := err.(*AppError)
	require.Equal(t, "name is required", appErr.Message)
	details := appErr.Details.([]FieldError)
	require.Contains(t, details, FieldError{Field: "method", Rule: "oneof"})
	require.Contains(t, details, FieldError{Field: "items[0].quantity", Rule: "min"})
}

func TestValidateStructEmptySlice(t *testing.T) {
	err := ValidateStruct(nil, sampleInput{Name: "a", Lines: []sampleLine{}})
	require.Error(t, err)
	require.Equal(t, "items must contain at least 1 item(s)", err.(*AppError).Message)
}

func TestValidateStructPasses(t *testing.T) {
	require.NoError(t, ValidateStruct(NewValidator(), sampleInput{Name: "a", Method: "cash", Lines: []sampleLine{{}}}))
}
