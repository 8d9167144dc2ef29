package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type loginInput struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Status   string `form:"status" validate:"omitempty,oneof=pending active deactive"`
}

func TestToDetails_FieldMessages(t *testing.T) {
	v := validator.New()
	Configure(v)

	err := v.Struct(loginInput{Email: "nope", Password: "123", Status: "x"})
	d := ToDetails(err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "min length 6", d["password"])
	assert.Equal(t, "must be one of: pending, active, deactive", d["status"])

	assert.NoError(t, v.Struct(loginInput{Email: "a@x.io", Password: "123456"}))
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var x map[string]any
	err := json.Unmarshal([]byte("{"), &x)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
