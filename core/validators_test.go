package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func newTestValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	InitValidators(validate, translator)
	return validate
}

func TestPhoneValidation(t *testing.T) {
	validate := newTestValidator()

	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{name: "plain 10 digits", phone: "0612345678"},
		{name: "separators are ignored", phone: "06 12 34 56 78"},
		{name: "dashed", phone: "06-12-34-56-78"},
		{name: "too short", phone: "061234567", wantErr: true},
		{name: "too long", phone: "06123456789", wantErr: true},
		{name: "empty", phone: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Var(tt.phone, "phone10")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestYearLabelValidation(t *testing.T) {
	validate := newTestValidator()

	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{name: "consecutive years", label: "2024-2025"},
		{name: "non-consecutive years", label: "2024-2099", wantErr: true},
		{name: "reversed", label: "2025-2024", wantErr: true},
		{name: "same year", label: "2024-2024", wantErr: true},
		{name: "not a label", label: "Année Spéciale", wantErr: true},
		{name: "missing end year", label: "2024-", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Var(tt.label, "year_label")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "0612345678", NormalizeDigits("06 12-34.56/78"))
	assert.Equal(t, "", NormalizeDigits("abc"))
}
