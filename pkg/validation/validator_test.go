package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idParam struct {
	ID string `uri:"id" binding:"required,objectid" validate:"required,objectid"`
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Role     string `json:"role" validate:"required,role"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestObjectIDTag(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(idParam{ID: "65a1f0c2e4b0a1b2c3d4e5f6"}))

	err := v.Struct(idParam{ID: "not-an-id"})
	require.Error(t, err)
	errs := ToErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "id", errs[0].Field)
	assert.Equal(t, "objectid", errs[0].Tag)
	assert.Equal(t, "not-an-id", errs[0].Value)
}

func TestAliases(t *testing.T) {
	v := newValidator()
	err := v.Struct(signup{Email: "a@b.co", Password: "short", Role: "admin"})
	require.Error(t, err)

	byField := map[string]ValidationsError{}
	for _, e := range ToErrors(err) {
		byField[e.Field] = e
	}
	assert.Equal(t, "pwd", byField["password"].Tag)
	assert.Equal(t, "min length 8", byField["password"].Message)
	assert.Equal(t, "role", byField["role"].Tag)
}

func TestToErrors_InvalidJSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)
	errs := ToErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid json", errs[0].Message)
}

func TestIsObjectID(t *testing.T) {
	assert.True(t, IsObjectID("000000000000000000000000"))
	assert.False(t, IsObjectID("zz0000000000000000000000"))
	assert.False(t, IsObjectID("abc"))
}
