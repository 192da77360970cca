package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"omitempty,oneof=admin team_member"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(registerInput{Email: "a@b.com", Password: "password1", Role: "admin"})
	assert.NoError(t, err)
}

func TestValidate_OmitemptySkipsZeroValue(t *testing.T) {
	err := Validate(registerInput{Email: "a@b.com", Password: "password1"})
	assert.NoError(t, err)
}

func TestValidate_RequiredField(t *testing.T) {
	err := Validate(registerInput{Password: "password1"})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Email")
	assert.Equal(t, "is required", fields["Email"])
}

func TestValidate_EmailFormat(t *testing.T) {
	err := Validate(registerInput{Email: "not-an-email", Password: "password1"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidate_MinLength(t *testing.T) {
	err := Validate(registerInput{Email: "a@b.com", Password: "short"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Password"], "at least 8")
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(registerInput{Email: "a@b.com", Password: "password1", Role: "superuser"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["Role"], "must be one of")
}

func TestValidate_MultipleFailures(t *testing.T) {
	err := Validate(registerInput{})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Fields(), 2)
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Password")
}

func TestValidate_GTE(t *testing.T) {
	type priced struct {
		PriceCents int64 `validate:"gte=0"`
	}

	assert.NoError(t, Validate(priced{PriceCents: 0}))

	err := Validate(priced{PriceCents: -1})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["PriceCents"], "greater than or equal to 0")
}
