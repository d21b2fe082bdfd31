package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	idmerrors "github.com/tendant/simple-user-mgmt/pkg/errors"
)

type sample struct {
	Name   string  `json:"name" validate:"required,max=10"`
	Email  string  `json:"email" validate:"omitempty,email"`
	Kind   string  `json:"kind" validate:"omitempty,oneof=A B"`
	Code   string  `json:"code" validate:"omitempty,upper_snake"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Locale *string `json:"locale,omitempty" validate:"omitempty,locale"`
}

func strPtr(s string) *string { return &s }

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{
		Name:   "ok",
		Email:  "a@example.com",
		Kind:   "A",
		Code:   "USER_READ",
		Phone:  strPtr("+15551234567"),
		Locale: strPtr("en_US"),
	}))
}

func TestStruct_Invalid(t *testing.T) {
	err := Struct(sample{
		Name:   "much-too-long-name",
		Email:  "nope",
		Kind:   "C",
		Code:   "lower",
		Phone:  strPtr("call me"),
		Locale: strPtr("english"),
	})
	require.Error(t, err)
	assert.True(t, idmerrors.IsCode(err, idmerrors.ErrCodeValidationFailed))

	details := idmerrors.GetDetails(err)
	assert.Equal(t, "must be at most 10 characters", details["name"])
	assert.Equal(t, "must be a valid email address", details["email"])
	assert.Equal(t, "must be one of: A B", details["kind"])
	assert.Equal(t, "must contain only uppercase letters and underscores", details["code"])
	assert.Equal(t, "must be a valid phone number", details["phone"])
	assert.Equal(t, "must be a locale like en_US", details["locale"])
}

func TestStruct_Required(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)
	assert.Equal(t, map[string]interface{}{"name": "is required"}, idmerrors.GetDetails(err))
}

func TestCustomTagsRegistered(t *testing.T) {
	v := get()
	require.NotNil(t, v)
	for tag := range patterns {
		t.Run(tag, func(t *testing.T) {
			assert.NotPanics(t, func() { _ = v.Var("x", tag) })
		})
	}
}
