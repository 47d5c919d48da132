package validator_test

import (
	"strings"
	"testing"
	"voyage/shared/failure"
	"voyage/shared/validator"

	"github.com/stretchr/testify/assert"
)

type travelerInput struct {
	Name           string `json:"name"            validate:"required,notblank"`
	Age            int    `json:"age"             validate:"gte=0,lte=120"`
	Type           string `json:"type"            validate:"oneof=adult child infant"`
	PassportNumber string `json:"passport_number" validate:"required,passport"`
}

type partyInput struct {
	Adults    int             `json:"adults"    validate:"gte=1"`
	Travelers []travelerInput `json:"travelers" validate:"dive"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *travelerInput
		expectError bool
		contains    string
	}{
		{
			name:        "valid traveler",
			data:        &travelerInput{Name: "Amina Yusuf", Age: 34, Type: "adult", PassportNumber: "A1234567"},
			expectError: false,
		},
		{
			name:        "blank name",
			data:        &travelerInput{Name: "   ", Age: 34, Type: "adult", PassportNumber: "A1234567"},
			expectError: true,
			contains:    "name must not be blank",
		},
		{
			name:        "short passport",
			data:        &travelerInput{Name: "Amina", Age: 34, Type: "adult", PassportNumber: "A123"},
			expectError: true,
			contains:    "passport_number",
		},
		{
			name:        "passport with symbols",
			data:        &travelerInput{Name: "Amina", Age: 34, Type: "adult", PassportNumber: "A12-45678"},
			expectError: true,
		},
		{
			name:        "unknown traveler type",
			data:        &travelerInput{Name: "Amina", Age: 34, Type: "senior", PassportNumber: "A1234567"},
			expectError: true,
			contains:    "type must be one of adult child infant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if !tt.expectError {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.True(t, failure.IsKind(err, failure.KindValidation))

			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestValidateStruct_NestedFieldNames(t *testing.T) {
	data := &partyInput{
		Adults: 1,
		Travelers: []travelerInput{
			{Name: "Amina", Age: 34, Type: "adult", PassportNumber: "A1234567"},
			{Name: "Omar", Age: 8, Type: "child"},
		},
	}

	err := validator.ValidateStruct(data)

	assert.Error(t, err)
	assert.Equal(t, "travelers[1].passport_number is required", err.Error())
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("X9876543", "passport"))
	assert.Error(t, validator.ValidateVar("X98", "passport"))
	assert.NoError(t, validator.ValidateVar(3, "gte=1"))
	assert.Error(t, validator.ValidateVar(0, "gte=1"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid json",
			body:        `{"name":"Amina","age":34,"type":"adult","passport_number":"A1234567"}`,
			expectError: false,
		},
		{
			name:        "malformed json",
			body:        `{"name":`,
			expectError: true,
		},
		{
			name:        "unknown field rejected",
			body:        `{"name":"Amina","age":34,"type":"adult","passport_number":"A1234567","vip":true}`,
			expectError: true,
		},
		{
			name:        "fails validation",
			body:        `{"name":"Amina","age":34,"type":"adult"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data travelerInput

			err := validator.Validate(strings.NewReader(tt.body), &data)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "Amina", data.Name)
			}
		})
	}
}
